package feed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kbukum/mddapi/auth/authctx"
	"github.com/kbukum/mddapi/database"
	"github.com/kbukum/mddapi/database/migration"
	apperrors "github.com/kbukum/mddapi/errors"
	"github.com/kbukum/mddapi/internal/user"
	"github.com/kbukum/mddapi/logger"
)

type fixture struct {
	svc   *Service
	repo  *Repository
	alice authctx.Principal
	bob   authctx.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db, err := database.New(ctx, database.Config{
		DSN:      filepath.Join(t.TempDir(), "feed.db") + "?_foreign_keys=on",
		LogLevel: "silent",
	}, logger.NewNop())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	src, err := migration.ForDriver(database.DriverSQLite)
	if err != nil {
		t.Fatal(err)
	}
	if err := migration.Up(db.GormDB, src); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := user.NewRepository(db)
	mk := func(email, name string) authctx.Principal {
		u := &user.User{Email: email, Username: name, PasswordHash: "$2a$04$hash"}
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
		return u.Principal()
	}

	repo := NewRepository(db)
	return &fixture{
		svc:   NewService(repo, logger.NewNop()),
		repo:  repo,
		alice: mk("alice@example.com", "alice"),
		bob:   mk("bob@example.com", "bob"),
	}
}

func (f *fixture) theme(t *testing.T, name string) *ThemeResponse {
	t.Helper()
	th, err := f.svc.CreateTheme(context.Background(), ThemeRequest{Name: name, Description: name + " things"})
	if err != nil {
		t.Fatalf("CreateTheme(%s): %v", name, err)
	}
	return th
}

func (f *fixture) article(t *testing.T, p authctx.Principal, themeID int64, title, content string) *ArticleResponse {
	t.Helper()
	a, err := f.svc.CreateArticle(context.Background(), p, ArticleRequest{Title: title, Content: content, ThemeID: themeID})
	if err != nil {
		t.Fatalf("CreateArticle(%s): %v", title, err)
	}
	return a
}

func wantCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	if !apperrors.HasCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestThemes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	golang := f.theme(t, "Go")
	f.theme(t, "Rust")

	_, err := f.svc.CreateTheme(ctx, ThemeRequest{Name: "Go"})
	wantCode(t, err, apperrors.ErrCodeThemeAlreadyExists)

	all, err := f.svc.ListThemes(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListThemes = %v, %v", all, err)
	}

	updated, err := f.svc.UpdateTheme(ctx, golang.ID, ThemeRequest{Name: "Go", Description: "gophers"})
	if err != nil {
		t.Fatalf("update keeping the same name: %v", err)
	}
	if updated.Description != "gophers" {
		t.Errorf("description = %q", updated.Description)
	}
	_, err = f.svc.UpdateTheme(ctx, golang.ID, ThemeRequest{Name: "Rust"})
	wantCode(t, err, apperrors.ErrCodeThemeAlreadyExists)

	_, err = f.svc.GetTheme(ctx, 999)
	wantCode(t, err, apperrors.ErrCodeThemeNotFound)
	wantCode(t, f.svc.DeleteTheme(ctx, 999), apperrors.ErrCodeThemeNotFound)
}

func TestDeleteThemeCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	th := f.theme(t, "Go")
	a := f.article(t, f.alice, th.ID, "Generics", "type params")
	if _, err := f.svc.CreateComment(ctx, f.bob, CommentRequest{Content: "nice", ArticleID: a.ID}); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Subscribe(ctx, f.bob, th.ID); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.DeleteTheme(ctx, th.ID); err != nil {
		t.Fatalf("DeleteTheme: %v", err)
	}
	_, err := f.svc.GetArticle(ctx, a.ID)
	wantCode(t, err, apperrors.ErrCodeArticleNotFound)
	subs, _ := f.svc.Subscriptions(ctx, f.bob)
	if len(subs) != 0 {
		t.Errorf("subscriptions survived theme delete: %v", subs)
	}
}

func TestArticles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	golang := f.theme(t, "Go")
	rust := f.theme(t, "Rust")

	first := f.article(t, f.alice, golang.ID, "Channels", "select statements")
	second := f.article(t, f.bob, rust.ID, "Ownership", "borrow checker, 100% safe")

	if first.AuthorUsername != "alice" || first.Theme.Name != "Go" || first.CommentsCount != 0 {
		t.Errorf("unexpected article %+v", first)
	}

	_, err := f.svc.CreateArticle(ctx, f.alice, ArticleRequest{Title: "x", Content: "y", ThemeID: 999})
	wantCode(t, err, apperrors.ErrCodeThemeNotFound)

	all, err := f.svc.ListArticles(ctx, ArticleFilter{})
	if err != nil || len(all) != 2 {
		t.Fatalf("ListArticles = %v, %v", all, err)
	}
	if all[0].ID != second.ID {
		t.Errorf("expected newest first, got %d then %d", all[0].ID, all[1].ID)
	}

	tests := []struct {
		name   string
		filter ArticleFilter
		want   []int64
	}{
		{"by author", ArticleFilter{AuthorID: f.alice.ID}, []int64{first.ID}},
		{"by theme", ArticleFilter{ThemeID: rust.ID}, []int64{second.ID}},
		{"search title", ArticleFilter{Keyword: "Chan"}, []int64{first.ID}},
		{"search content", ArticleFilter{Keyword: "borrow"}, []int64{second.ID}},
		{"percent is literal", ArticleFilter{Keyword: "100%"}, []int64{second.ID}},
		{"underscore is literal", ArticleFilter{Keyword: "_"}, nil},
		{"no match", ArticleFilter{Keyword: "haskell"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.ListArticles(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d articles, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("article[%d] = %d, want %d", i, got[i].ID, tt.want[i])
				}
			}
		})
	}

	_, err = f.svc.ListArticles(ctx, ArticleFilter{ThemeID: 999})
	wantCode(t, err, apperrors.ErrCodeThemeNotFound)
}

func TestArticleOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	th := f.theme(t, "Go")
	a := f.article(t, f.alice, th.ID, "Original", "body")

	_, err := f.svc.UpdateArticle(ctx, f.bob, a.ID, ArticleRequest{Title: "Hijacked", Content: "x", ThemeID: th.ID})
	wantCode(t, err, apperrors.ErrCodeUnauthorizedOperation)
	wantCode(t, f.svc.DeleteArticle(ctx, f.bob, a.ID), apperrors.ErrCodeUnauthorizedOperation)

	got, _ := f.svc.GetArticle(ctx, a.ID)
	if got.Title != "Original" {
		t.Errorf("refused update was applied: %q", got.Title)
	}

	updated, err := f.svc.UpdateArticle(ctx, f.alice, a.ID, ArticleRequest{Title: "Edited", Content: "new", ThemeID: th.ID})
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if updated.Title != "Edited" || updated.Content != "new" {
		t.Errorf("unexpected article %+v", updated)
	}

	if err := f.svc.DeleteArticle(ctx, f.alice, a.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	wantCode(t, f.svc.DeleteArticle(ctx, f.alice, a.ID), apperrors.ErrCodeArticleNotFound)
}

func TestComments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	th := f.theme(t, "Go")
	a := f.article(t, f.alice, th.ID, "Interfaces", "small ones")

	c1, err := f.svc.CreateComment(ctx, f.bob, CommentRequest{Content: "first", ArticleID: a.ID})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.CreateComment(ctx, f.alice, CommentRequest{Content: "second", ArticleID: a.ID}); err != nil {
		t.Fatal(err)
	}
	if c1.Username != "bob" || c1.ArticleID != a.ID {
		t.Errorf("unexpected comment %+v", c1)
	}

	_, err = f.svc.CreateComment(ctx, f.bob, CommentRequest{Content: "lost", ArticleID: 999})
	wantCode(t, err, apperrors.ErrCodeArticleNotFound)

	list, err := f.svc.CommentsByArticle(ctx, a.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("CommentsByArticle = %v, %v", list, err)
	}
	if list[0].Content != "first" {
		t.Errorf("expected oldest first, got %q", list[0].Content)
	}

	withCount, _ := f.svc.GetArticle(ctx, a.ID)
	if withCount.CommentsCount != 2 {
		t.Errorf("commentsCount = %d", withCount.CommentsCount)
	}

	mine, _ := f.svc.CommentsByAuthor(ctx, f.bob)
	if len(mine) != 1 || mine[0].ID != c1.ID {
		t.Errorf("CommentsByAuthor = %v", mine)
	}

	wantCode(t, f.svc.DeleteComment(ctx, f.alice, c1.ID), apperrors.ErrCodeUnauthorizedOperation)
	if err := f.svc.DeleteComment(ctx, f.bob, c1.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	_, err = f.svc.GetComment(ctx, c1.ID)
	wantCode(t, err, apperrors.ErrCodeCommentNotFound)
}

func TestSubscriptions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	golang := f.theme(t, "Go")
	rust := f.theme(t, "Rust")

	for _, id := range []int64{rust.ID, golang.ID} {
		if err := f.svc.Subscribe(ctx, f.alice, id); err != nil {
			t.Fatalf("Subscribe(%d): %v", id, err)
		}
	}
	wantCode(t, f.svc.Subscribe(ctx, f.alice, golang.ID), apperrors.ErrCodeBadRequest)
	wantCode(t, f.svc.Subscribe(ctx, f.alice, 999), apperrors.ErrCodeBadRequest)

	ids, err := f.svc.Subscriptions(ctx, f.alice)
	if err != nil || len(ids) != 2 || ids[0] != golang.ID || ids[1] != rust.ID {
		t.Fatalf("Subscriptions = %v, %v", ids, err)
	}
	if other, _ := f.svc.Subscriptions(ctx, f.bob); len(other) != 0 {
		t.Errorf("bob should have no subscriptions, got %v", other)
	}

	if err := f.svc.Unsubscribe(ctx, f.alice, golang.ID); err != nil {
		t.Fatal(err)
	}
	wantCode(t, f.svc.Unsubscribe(ctx, f.alice, golang.ID), apperrors.ErrCodeBadRequest)
	wantCode(t, f.svc.Unsubscribe(ctx, f.alice, 999), apperrors.ErrCodeBadRequest)
}

func TestRequestValidation(t *testing.T) {
	long := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = 'x'
		}
		return string(b)
	}
	tests := []struct {
		name    string
		v       validatable
		wantErr bool
	}{
		{"theme ok", &ThemeRequest{Name: "Go"}, false},
		{"theme blank name", &ThemeRequest{Name: "  "}, true},
		{"theme long name", &ThemeRequest{Name: long(101)}, true},
		{"theme long description", &ThemeRequest{Name: "Go", Description: long(501)}, true},
		{"article ok", &ArticleRequest{Title: "t", Content: "c", ThemeID: 1}, false},
		{"article long title", &ArticleRequest{Title: long(201), Content: "c", ThemeID: 1}, true},
		{"article no theme", &ArticleRequest{Title: "t", Content: "c"}, true},
		{"article no content", &ArticleRequest{Title: "t", ThemeID: 1}, true},
		{"comment ok", &CommentRequest{Content: "c", ArticleID: 1}, false},
		{"comment no article", &CommentRequest{Content: "c"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
