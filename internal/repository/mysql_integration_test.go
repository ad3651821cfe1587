//go:build integration

package repository_test

import (
	"context"
	"database/sql"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/iliyamo/cinereview/internal/database"
	"github.com/iliyamo/cinereview/internal/model"
	"github.com/iliyamo/cinereview/internal/repository"
)

const mysqlImage = "mysql:8.0.36"

// startMySQL runs a throwaway MySQL server, applies the migrations and
// returns a pool opened the same way the server opens its own.
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}

	ctx = context.Background()
	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        mysqlImage,
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "root",
				"MYSQL_DATABASE":      "cinereview",
				"MYSQL_USER":          "cinereview",
				"MYSQL_PASSWORD":      "secret",
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("port: 3306  MySQL Community Server"),
				wait.ForListeningPort("3306/tcp"),
			).WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	db, err := database.Open("cinereview", "secret", host, port.Port(), "cinereview")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	version, err := database.Migrate(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
	return db
}

func TestMySQLRepositories(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()

	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)
	reviews := repository.NewReviewRepo(db)
	favorites := repository.NewFavoriteRepo(db)

	newUser := func(t *testing.T, sub, email, name string) *model.User {
		t.Helper()
		u := &model.User{AuthSubjectID: sub, Email: email, Name: name}
		require.NoError(t, users.Create(ctx, u))
		return u
	}
	newMovie := func(t *testing.T, externalID, title string) *model.Movie {
		t.Helper()
		m := &model.Movie{ExternalID: externalID, Title: title, Year: 1994, Cast: []string{"Tim Robbins"}, Kind: "movie", Image: "https://img/" + externalID}
		require.NoError(t, movies.Create(ctx, m))
		return m
	}

	t.Run("users", func(t *testing.T) {
		u := newUser(t, "auth0|ann", " Ann@Example.COM ", "Ann")
		assert.NotZero(t, u.ID)
		assert.Equal(t, "ann@example.com", u.Email)
		assert.False(t, u.CreatedAt.IsZero())

		err := users.Create(ctx, &model.User{AuthSubjectID: "auth0|ann", Email: "other@example.com"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		got, err := users.GetBySubject(ctx, "auth0|ann")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		_, err = users.GetBySubject(ctx, "auth0|nobody")
		assert.ErrorIs(t, err, repository.ErrUserNotFound)

		require.NoError(t, users.UpdateName(ctx, u.ID, "Ann B"))
		// same value again still matches the row
		require.NoError(t, users.UpdateName(ctx, u.ID, "Ann B"))
		got, err = users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ann B", got.Name)

		assert.ErrorIs(t, users.UpdateName(ctx, 999999, "x"), repository.ErrUserNotFound)
	})

	t.Run("movies", func(t *testing.T) {
		m := &model.Movie{ExternalID: "tt0111161", Title: "The Shawshank Redemption", Year: 1994,
			Cast: []string{"Tim Robbins", "Morgan Freeman"}, Kind: "movie", Image: "https://img/1.jpg"}
		require.NoError(t, movies.Create(ctx, m))
		assert.NotZero(t, m.ID)

		dup := &model.Movie{ExternalID: "tt0111161", Title: "Again"}
		assert.ErrorIs(t, movies.Create(ctx, dup), repository.ErrDuplicate)
		assert.Zero(t, dup.ID)

		got, err := movies.GetByExternalID(ctx, "tt0111161")
		require.NoError(t, err)
		assert.Equal(t, m.ID, got.ID)
		assert.Equal(t, []string{"Tim Robbins", "Morgan Freeman"}, got.Cast)
		assert.Equal(t, 1994, got.Year)
		assert.Equal(t, "https://img/1.jpg", got.Image)

		bare := &model.Movie{ExternalID: "tt0000001", Title: "No cast"}
		require.NoError(t, movies.Create(ctx, bare))
		got, err = movies.GetByExternalID(ctx, "tt0000001")
		require.NoError(t, err)
		assert.Empty(t, got.Cast)

		_, err = movies.GetByExternalID(ctx, "tt404")
		assert.ErrorIs(t, err, repository.ErrMovieNotFound)
	})

	t.Run("favorites", func(t *testing.T) {
		u := newUser(t, "auth0|fav", "fav@example.com", "Fav")
		first := newMovie(t, "tt1000001", "First")
		second := newMovie(t, "tt1000002", "Second")

		require.NoError(t, favorites.Add(ctx, u.ID, first.ID))
		require.NoError(t, favorites.Add(ctx, u.ID, second.ID))
		assert.ErrorIs(t, favorites.Add(ctx, u.ID, first.ID), repository.ErrDuplicate)

		list, err := favorites.ListMovies(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "tt1000001", list[0].ExternalID)
		assert.Equal(t, "tt1000002", list[1].ExternalID)
		assert.Equal(t, []string{"Tim Robbins"}, list[0].Cast)

		got, err := favorites.FindByExternalID(ctx, u.ID, "tt1000002")
		require.NoError(t, err)
		assert.Equal(t, second.ID, got.ID)

		other := newUser(t, "auth0|other", "other@example.com", "Other")
		_, err = favorites.FindByExternalID(ctx, other.ID, "tt1000002")
		assert.ErrorIs(t, err, repository.ErrFavoriteNotFound)

		require.NoError(t, favorites.Remove(ctx, u.ID, first.ID))
		assert.ErrorIs(t, favorites.Remove(ctx, u.ID, first.ID), repository.ErrFavoriteNotFound)

		list, err = favorites.ListMovies(ctx, other.ID)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("reviews", func(t *testing.T) {
		owner := newUser(t, "auth0|owner", "owner@example.com", "Owner")
		stranger := newUser(t, "auth0|stranger", "stranger@example.com", "Stranger")
		m := newMovie(t, "tt2000001", "Reviewed")
		other := newMovie(t, "tt2000002", "Elsewhere")

		rv := &model.Review{Title: "First", Content: "Good", UserID: owner.ID, MovieID: m.ID}
		require.NoError(t, reviews.Create(ctx, rv))
		assert.NotZero(t, rv.ID)
		assert.False(t, rv.CreatedAt.IsZero())

		// 20000 four-byte characters: 80000 bytes, more than TEXT holds
		long := strings.Repeat("🎬", 20000)
		big := &model.Review{Title: "Long", Content: long, UserID: owner.ID, MovieID: other.ID}
		require.NoError(t, reviews.Create(ctx, big))
		got, err := reviews.GetByID(ctx, big.ID)
		require.NoError(t, err)
		assert.Equal(t, long, got.Content)

		third := &model.Review{Title: "Third", Content: "Meh", UserID: stranger.ID, MovieID: m.ID}
		require.NoError(t, reviews.Create(ctx, third))

		v, err := reviews.GetView(ctx, rv.ID)
		require.NoError(t, err)
		assert.Equal(t, "tt2000001", v.MovieExternalID)
		assert.Equal(t, "Reviewed", v.MovieTitle)
		assert.Equal(t, "https://img/tt2000001", v.MovieImage)
		assert.Equal(t, "Owner", v.UserName)
		assert.Equal(t, "owner@example.com", v.UserEmail)

		_, err = reviews.GetView(ctx, 999999)
		assert.ErrorIs(t, err, repository.ErrReviewNotFound)

		recent, err := reviews.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, third.ID, recent[0].ID)
		assert.Equal(t, big.ID, recent[1].ID)

		byMovie, err := reviews.ListByMovie(ctx, m.ID)
		require.NoError(t, err)
		require.Len(t, byMovie, 2)
		assert.Equal(t, third.ID, byMovie[0].ID)
		assert.Equal(t, rv.ID, byMovie[1].ID)

		byUser, err := reviews.ListByUser(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, byUser, 2)
		assert.Equal(t, big.ID, byUser[0].ID)
		assert.Equal(t, "Elsewhere", byUser[0].MovieTitle)

		_, err = reviews.Update(ctx, rv.ID, stranger.ID, "Hijacked", "x")
		assert.ErrorIs(t, err, repository.ErrReviewNotFound)
		_, err = reviews.Update(ctx, 999999, owner.ID, "Gone", "x")
		assert.ErrorIs(t, err, repository.ErrReviewNotFound)

		updated, err := reviews.Update(ctx, rv.ID, owner.ID, "Edited", "Better")
		require.NoError(t, err)
		assert.Equal(t, "Edited", updated.Title)
		assert.Equal(t, "Better", updated.Content)
		// identical values still match the row
		_, err = reviews.Update(ctx, rv.ID, owner.ID, "Edited", "Better")
		require.NoError(t, err)

		assert.ErrorIs(t, reviews.Delete(ctx, rv.ID, stranger.ID), repository.ErrReviewNotFound)
		require.NoError(t, reviews.Delete(ctx, rv.ID, owner.ID))
		assert.ErrorIs(t, reviews.Delete(ctx, rv.ID, owner.ID), repository.ErrReviewNotFound)
		_, err = reviews.GetByID(ctx, rv.ID)
		assert.ErrorIs(t, err, repository.ErrReviewNotFound)
	})
}
