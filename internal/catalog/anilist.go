package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	DefaultAniListURL = "https://graphql.anilist.co"
	maxAniListPerPage = 50
)

const byGenresQuery = `query ($genres: [String], $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    media(genre_in: $genres, type: ANIME, sort: POPULARITY_DESC) {
      id
      title { romaji english }
      genres
      averageScore
    }
  }
}`

const titleQuery = `query ($search: String) {
  Media(search: $search, type: ANIME) {
    id
    title { romaji english }
    genres
    averageScore
    episodes
    siteUrl
    description
  }
}`

// MediaTitle holds the localized titles AniList returns.
type MediaTitle struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
}

// Media is one AniList anime. Episodes, SiteURL and Description are only
// populated by Details.
type Media struct {
	ID           int        `json:"id"`
	Title        MediaTitle `json:"title"`
	Genres       []string   `json:"genres"`
	AverageScore int        `json:"averageScore"`
	Episodes     int        `json:"episodes,omitempty"`
	SiteURL      string     `json:"siteUrl,omitempty"`
	Description  string     `json:"description,omitempty"`
}

// DisplayTitle renders "romaji (english)", omitting a missing or repeated
// English title.
func (m Media) DisplayTitle() string {
	title := m.Title.Romaji
	if title == "" {
		title = m.Title.English
	}
	if m.Title.English != "" && !strings.EqualFold(m.Title.English, title) {
		title += " (" + m.Title.English + ")"
	}
	return title
}

// PreferredTitle is the title to hand to a player or a store.
func (m Media) PreferredTitle() string {
	if m.Title.English != "" {
		return m.Title.English
	}
	return m.Title.Romaji
}

// AniList queries the AniList GraphQL API.
type AniList struct {
	endpoint string
	t        *transport
}

func NewAniList(endpoint string, opts Options) *AniList {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultAniListURL
	}
	return &AniList{endpoint: endpoint, t: newTransport(opts)}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type graphQLResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// ByGenres returns the most popular anime carrying any of genres, capped at
// perPage.
func (a *AniList) ByGenres(ctx context.Context, genres []string, perPage int) ([]Media, error) {
	if len(genres) == 0 {
		return nil, nil
	}
	if perPage <= 0 || perPage > maxAniListPerPage {
		perPage = maxAniListPerPage
	}

	var data struct {
		Page struct {
			Media []Media `json:"media"`
		} `json:"Page"`
	}
	err := query(ctx, a, "anilist by genres", byGenresQuery, map[string]any{
		"genres":  genres,
		"page":    1,
		"perPage": perPage,
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.Page.Media, nil
}

// TitleGenres returns the genres of AniList's best match for title. A title
// AniList does not know yields no genres and no error.
func (a *AniList) TitleGenres(ctx context.Context, title string) ([]string, error) {
	media, err := a.lookup(ctx, "anilist title genres", title)
	if err != nil || media == nil {
		return nil, err
	}
	return media.Genres, nil
}

// Details returns the best match for title with its description flattened
// to plain text. It returns nil when AniList has no match.
func (a *AniList) Details(ctx context.Context, title string) (*Media, error) {
	media, err := a.lookup(ctx, "anilist details", title)
	if err != nil || media == nil {
		return nil, err
	}
	media.Description = FlattenHTML(media.Description)
	return media, nil
}

func (a *AniList) lookup(ctx context.Context, op, title string) (*Media, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	var data struct {
		Media *Media `json:"Media"`
	}
	err := query(ctx, a, op, titleQuery, map[string]any{"search": title}, &data)
	if err != nil {
		// AniList answers an unmatched search with a 404 GraphQL error.
		var catErr *Error
		if errors.As(err, &catErr) && catErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return data.Media, nil
}

func query[T any](ctx context.Context, a *AniList, op, gql string, variables map[string]any, out *T) error {
	body, err := json.Marshal(graphQLRequest{Query: gql, Variables: variables})
	if err != nil {
		return &Error{Op: op, Kind: KindDecode, Err: fmt.Errorf("failed to encode query: %w", err)}
	}

	return a.t.fetch(ctx, op, http.MethodPost, a.endpoint, body, func(raw []byte) error {
		var resp graphQLResponse[T]
		if err := json.Unmarshal(raw, &resp); err != nil {
			return &Error{Op: op, Kind: KindDecode, Err: err}
		}
		if len(resp.Errors) > 0 {
			messages := make([]string, 0, len(resp.Errors))
			for _, e := range resp.Errors {
				messages = append(messages, e.Message)
			}
			return &Error{
				Op:     op,
				Kind:   KindGraphQL,
				Status: resp.Errors[0].Status,
				Err:    errors.New(strings.Join(messages, "; ")),
			}
		}
		*out = resp.Data
		return nil
	})
}
