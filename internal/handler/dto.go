package handler

import (
	"strings"
	"time"

	"github.com/iliyamo/cinereview/internal/model"
)

// JSON shapes returned by the API.  Keys are camelCase because the web
// client consumes them directly.

type userJSON struct {
	ID            uint64    `json:"id"`
	AuthSubjectID string    `json:"authSubjectId"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toUser(u *model.User) userJSON {
	return userJSON{ID: u.ID, AuthSubjectID: u.AuthSubjectID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

type reviewJSON struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    uint64    `json:"userId"`
	MovieID   uint64    `json:"movieId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toReview(r *model.Review) reviewJSON {
	return reviewJSON{ID: r.ID, Title: r.Title, Content: r.Content, UserID: r.UserID, MovieID: r.MovieID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

// reviewDetailJSON is the single-review page.  userCreatedAt is the
// review's creation time; the name is kept for client compatibility.
type reviewDetailJSON struct {
	ID            uint64    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	MovieName     string    `json:"movieName"`
	MovieImage    string    `json:"movieImage"`
	UserName      string    `json:"userName"`
	UserCreatedAt time.Time `json:"userCreatedAt"`
}

func toReviewDetail(v *model.ReviewView) reviewDetailJSON {
	return reviewDetailJSON{
		ID:            v.ID,
		Title:         v.Title,
		Content:       v.Content,
		MovieName:     v.MovieTitle,
		MovieImage:    v.MovieImage,
		UserName:      v.AuthorName(),
		UserCreatedAt: v.CreatedAt,
	}
}

type reviewItemJSON struct {
	ID              uint64    `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	MovieName       string    `json:"movieName"`
	MovieImage      string    `json:"movieImage"`
	MovieExternalID string    `json:"movieExternalId"`
	UserName        string    `json:"userName"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toReviewItems(views []*model.ReviewView) []reviewItemJSON {
	out := make([]reviewItemJSON, 0, len(views))
	for _, v := range views {
		out = append(out, reviewItemJSON{
			ID:              v.ID,
			Title:           v.Title,
			Content:         v.Content,
			MovieName:       v.MovieTitle,
			MovieImage:      v.MovieImage,
			MovieExternalID: v.MovieExternalID,
			UserName:        v.AuthorName(),
			CreatedAt:       v.CreatedAt,
			UpdatedAt:       v.UpdatedAt,
		})
	}
	return out
}

type movieJSON struct {
	ID         uint64   `json:"id"`
	ExternalID string   `json:"externalId"`
	Title      string   `json:"title"`
	Year       int      `json:"year,omitempty"`
	Stars      string   `json:"stars"`
	Cast       []string `json:"cast"`
	Kind       string   `json:"kind,omitempty"`
	Image      string   `json:"image"`
}

func toMovie(m *model.Movie) movieJSON {
	cast := m.Cast
	if cast == nil {
		cast = []string{}
	}
	return movieJSON{
		ID:         m.ID,
		ExternalID: m.ExternalID,
		Title:      m.Title,
		Year:       m.Year,
		Stars:      strings.Join(cast, ", "),
		Cast:       cast,
		Kind:       m.Kind,
		Image:      m.Image,
	}
}

func toMovies(ms []*model.Movie) []movieJSON {
	out := make([]movieJSON, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMovie(m))
	}
	return out
}

type favoriteJSON struct {
	MovieID         uint64 `json:"movieId"`
	MovieExternalID string `json:"movieExternalId"`
	Title           string `json:"title"`
	Image           string `json:"image"`
}

func toFavorites(ms []*model.Movie) []favoriteJSON {
	out := make([]favoriteJSON, 0, len(ms))
	for _, m := range ms {
		out = append(out, favoriteJSON{MovieID: m.ID, MovieExternalID: m.ExternalID, Title: m.Title, Image: m.Image})
	}
	return out
}

type searchResultJSON struct {
	ExternalID string   `json:"id"`
	Title      string   `json:"title"`
	Year       int      `json:"year,omitempty"`
	Stars      string   `json:"stars"`
	Kind       string   `json:"kind,omitempty"`
	Image      string   `json:"image"`
	Cast       []string `json:"cast"`
}

func toSearchResults(ds []model.MovieDescriptor) []searchResultJSON {
	out := make([]searchResultJSON, 0, len(ds))
	for _, d := range ds {
		cast := d.Cast
		if cast == nil {
			cast = []string{}
		}
		out = append(out, searchResultJSON{
			ExternalID: d.ExternalID,
			Title:      d.Title,
			Year:       d.Year,
			Stars:      strings.Join(cast, ", "),
			Kind:       d.Kind,
			Image:      d.Image,
			Cast:       cast,
		})
	}
	return out
}
