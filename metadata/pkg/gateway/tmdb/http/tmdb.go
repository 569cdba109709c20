// Package http is an HTTP gateway to the TMDB movie metadata API. Outbound
// calls share a token bucket so a burst of discovery traffic cannot exhaust
// the API quota.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/vaibhavisno-one/movierating/metadata/pkg/repository"
	"github.com/vaibhavisno-one/movierating/metadata/pkg/model"
)

// DefaultBaseURL is the production TMDB API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// ErrUnknownMood is returned for a mood key outside the mood table.
var ErrUnknownMood = errors.New("unknown mood")

// moodQuery maps a mood onto the keyword and genre ids used to discover
// matching movies.
type moodQuery struct {
	keywords []int
	genres   []int
}

var moodMap = map[string]moodQuery{
	"happy":       {keywords: []int{9715, 9717}, genres: []int{35, 10751}}, // comedy, family
	"sad":         {keywords: []int{9748, 9714}, genres: []int{18}},        // drama
	"adventurous": {keywords: []int{9716}, genres: []int{12, 28}},          // adventure, action
	"romantic":    {keywords: []int{9748}, genres: []int{10749}},           // romance
	"scary":       {keywords: []int{9718}, genres: []int{27, 53}},          // horror, thriller
	"inspiring":   {keywords: []int{9715}, genres: []int{18, 36}},          // drama, history
	"relaxing":    {keywords: []int{9716}, genres: []int{35, 10751}},       // comedy, family
	"thoughtful":  {keywords: []int{9714}, genres: []int{18, 99}},          // drama, documentary
}

// LanguageCodes maps language names accepted by the discovery filters onto
// ISO codes.
var LanguageCodes = map[string]string{
	"english":    "en",
	"hindi":      "hi",
	"spanish":    "es",
	"french":     "fr",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"russian":    "ru",
	"turkish":    "tr",
}

// Gateway is a TMDB API client.
type Gateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// New creates a TMDB gateway. An empty baseURL uses the production API.
func New(baseURL, apiKey string, limiter *rate.Limiter) *Gateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Gateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  http.DefaultClient,
		limiter: limiter,
	}
}

func (g *Gateway) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}
	params.Set("api_key", g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("movie api has no record for %s: %w", path, repository.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("movie api responded with %s for %s", resp.Status, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// SearchMovies searches by title, optionally restricted to an original
// language given by name.
func (g *Gateway) SearchMovies(ctx context.Context, query, language string) (*model.MoviePage, error) {
	params := url.Values{}
	params.Set("query", query)
	if code, ok := LanguageCodes[strings.ToLower(language)]; ok {
		params.Set("with_original_language", code)
	}
	var page model.MoviePage
	if err := g.get(ctx, "/search/movie", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPopularMovies lists popular movies.
func (g *Gateway) GetPopularMovies(ctx context.Context, page int, language string) (*model.MoviePage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if code, ok := LanguageCodes[strings.ToLower(language)]; ok {
		params.Set("with_original_language", code)
	}
	var result model.MoviePage
	if err := g.get(ctx, "/movie/popular", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMoviesByGenre discovers movies for a genre id.
func (g *Gateway) GetMoviesByGenre(ctx context.Context, genreID, page int, language string) (*model.MoviePage, error) {
	params := url.Values{}
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("page", strconv.Itoa(page))
	if code, ok := LanguageCodes[strings.ToLower(language)]; ok {
		params.Set("with_original_language", code)
	}
	var result model.MoviePage
	if err := g.get(ctx, "/discover/movie", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMoviesByMood discovers movies for a mood key from the fixed mood
// table, most popular first.
func (g *Gateway) GetMoviesByMood(ctx context.Context, mood string, page int) (*model.MoviePage, error) {
	q, ok := moodMap[strings.ToLower(mood)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMood, mood)
	}
	params := url.Values{}
	params.Set("with_genres", joinInts(q.genres))
	params.Set("with_keywords", joinInts(q.keywords))
	params.Set("page", strconv.Itoa(page))
	params.Set("sort_by", "popularity.desc")
	var result model.MoviePage
	if err := g.get(ctx, "/discover/movie", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMovieDetails fetches the full record for one movie.
func (g *Gateway) GetMovieDetails(ctx context.Context, id int) (*model.MovieDetail, error) {
	params := url.Values{}
	params.Set("append_to_response", "keywords,watch/providers")
	var detail model.MovieDetail
	if err := g.get(ctx, "/movie/"+strconv.Itoa(id), params, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
