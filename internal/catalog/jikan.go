package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultJikanURL = "https://api.jikan.moe/v4"
	// Jikan rejects limits above 25.
	maxJikanLimit = 25
)

// MediaKind selects the Jikan collection.
type MediaKind string

const (
	KindAnime MediaKind = "anime"
	KindManga MediaKind = "manga"
)

// SearchResult is one ranked title from a Jikan search.
type SearchResult struct {
	MalID        int       `json:"mal_id"`
	Kind         MediaKind `json:"kind"`
	Title        string    `json:"title"`
	TitleEnglish string    `json:"title_english,omitempty"`
	Score        float64   `json:"score"`
	URL          string    `json:"url"`
	Episodes     int       `json:"episodes,omitempty"`
	Chapters     int       `json:"chapters,omitempty"`
	Genres       []string  `json:"genres,omitempty"`
}

// Label renders the result the way menus list it.
func (r SearchResult) Label() string {
	label := r.Title
	if r.TitleEnglish != "" && !strings.EqualFold(r.TitleEnglish, r.Title) {
		label += " (" + r.TitleEnglish + ")"
	}
	if r.Score > 0 {
		label += " - " + strconv.FormatFloat(r.Score, 'f', 2, 64)
	}
	return label
}

// Jikan searches MyAnimeList through the Jikan REST mirror.
type Jikan struct {
	baseURL string
	t       *transport
}

func NewJikan(baseURL string, opts Options) *Jikan {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultJikanURL
	}
	return &Jikan{baseURL: strings.TrimRight(baseURL, "/"), t: newTransport(opts)}
}

// SearchAnime returns anime matching query in the order Jikan ranks them.
func (j *Jikan) SearchAnime(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	return j.search(ctx, KindAnime, query, limit)
}

// SearchManga returns manga matching query in the order Jikan ranks them.
func (j *Jikan) SearchManga(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	return j.search(ctx, KindManga, query, limit)
}

type jikanSearchResponse struct {
	Data []struct {
		MalID        int      `json:"mal_id"`
		URL          string   `json:"url"`
		Title        string   `json:"title"`
		TitleEnglish *string  `json:"title_english"`
		Score        *float64 `json:"score"`
		Episodes     *int     `json:"episodes"`
		Chapters     *int     `json:"chapters"`
		Genres       []struct {
			Name string `json:"name"`
		} `json:"genres"`
	} `json:"data"`
}

func (j *Jikan) search(ctx context.Context, kind MediaKind, query string, limit int) ([]SearchResult, error) {
	op := "jikan search " + string(kind)
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 || limit > maxJikanLimit {
		limit = maxJikanLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/%s?%s", j.baseURL, kind, params.Encode())

	var payload jikanSearchResponse
	err := j.t.fetch(ctx, op, http.MethodGet, endpoint, nil, func(data []byte) error {
		payload = jikanSearchResponse{}
		if err := json.Unmarshal(data, &payload); err != nil {
			return &Error{Op: op, Kind: KindDecode, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(payload.Data))
	for _, item := range payload.Data {
		result := SearchResult{
			MalID: item.MalID,
			Kind:  kind,
			Title: item.Title,
			URL:   item.URL,
		}
		if item.TitleEnglish != nil {
			result.TitleEnglish = *item.TitleEnglish
		}
		if item.Score != nil {
			result.Score = *item.Score
		}
		if item.Episodes != nil {
			result.Episodes = *item.Episodes
		}
		if item.Chapters != nil {
			result.Chapters = *item.Chapters
		}
		for _, g := range item.Genres {
			result.Genres = append(result.Genres, g.Name)
		}
		results = append(results, result)
	}
	return results, nil
}
