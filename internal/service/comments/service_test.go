package comments

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"launchit/internal/config"
	"launchit/internal/domain"
	"launchit/internal/domain/models"
	"launchit/internal/domain/services"
	"launchit/internal/metrics"
	"launchit/internal/service/auth"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	author   = models.Actor{ID: "author-1", Role: models.RoleUser}
	stranger = models.Actor{ID: "stranger", Role: models.RoleUser}
	admin    = models.Actor{ID: "admin", Role: models.RoleAdmin}
)

const (
	parentID       = "0b5f1f7e-2c1a-4d3b-9e8f-000000000001"
	missingID      = "0b5f1f7e-2c1a-4d3b-9e8f-000000000099"
	otherProjectID = "0b5f1f7e-2c1a-4d3b-9e8f-0000000000aa"
)

var fixedNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestCommentService(repo *memCommentRepo) (*commentService, *passthroughTx) {
	tx := &passthroughTx{}
	svc := NewCommentService(repo, tx, auth.NewRoleBasedAuthorizer(), NewTreeBuilder(OrphanDrop), nil, testLogger()).(*commentService)
	svc.now = func() time.Time { return fixedNow }
	return svc, tx
}

func TestCommentService_GetThread(t *testing.T) {
	repo := newMemCommentRepo(
		mk("1", nil, 0),
		mk("2", strPtr("1"), 1),
		mk("3", strPtr("99"), 2),
	)
	other := mk("x", nil, 0)
	other.ProjectID = "p2"
	repo.rows["x"] = &other
	repo.order = append(repo.order, "x")

	svc, _ := newTestCommentService(repo)

	roots, err := svc.GetThread(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(roots))
	assert.Equal(t, []string{"2"}, ids(roots[0].Children))

	_, err = svc.GetThread(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCommentService_GetThread_StoreFailure(t *testing.T) {
	boom := errors.New("db down")
	repo := newMemCommentRepo()
	repo.err = boom
	svc, _ := newTestCommentService(repo)

	_, err := svc.GetThread(context.Background(), "p1")
	assert.ErrorIs(t, err, boom)
}

func TestCommentService_CountComments(t *testing.T) {
	tomb := mk("2", nil, 1)
	tomb.Deleted = true
	repo := newMemCommentRepo(mk("1", nil, 0), tomb, mk("3", strPtr("2"), 2))
	svc, _ := newTestCommentService(repo)

	n, err := svc.CountComments(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCommentService_CreateComment(t *testing.T) {
	repo := newMemCommentRepo()
	svc, _ := newTestCommentService(repo)

	c, err := svc.CreateComment(context.Background(), author, &services.CreateCommentRequest{
		ProjectID: "p1",
		Content:   "  Love it  ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Love it", c.Content)
	assert.Equal(t, author.ID, c.AuthorID)
	assert.Equal(t, "p1", c.ProjectID)
	assert.Nil(t, c.ParentID)
	assert.False(t, c.Deleted)
	assert.Equal(t, fixedNow, c.CreatedAt)

	stored, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Love it", stored.Content)
}

func TestCommentService_CreateComment_KeepsTextAsWritten(t *testing.T) {
	tests := []string{
		"Use Vec<T> in Rust",
		"Map<String, Integer> works",
		"email me <bob@x.io>",
		"<nope>",
		"a < b && c > d",
		"<b>bold</b> &amp; plain",
	}

	for _, content := range tests {
		t.Run(content, func(t *testing.T) {
			repo := newMemCommentRepo()
			svc, _ := newTestCommentService(repo)

			c, err := svc.CreateComment(context.Background(), author, &services.CreateCommentRequest{
				ProjectID: "p1",
				Content:   "\n " + content + " \t",
			})
			require.NoError(t, err)
			assert.Equal(t, content, c.Content)

			stored, err := repo.GetByID(context.Background(), c.ID)
			require.NoError(t, err)
			assert.Equal(t, content, stored.Content)
		})
	}
}

func TestCommentService_CreateComment_EmptyParentIsTopLevel(t *testing.T) {
	repo := newMemCommentRepo()
	svc, _ := newTestCommentService(repo)

	c, err := svc.CreateComment(context.Background(), author, &services.CreateCommentRequest{
		ProjectID: "p1",
		Content:   "hi",
		ParentID:  strPtr(""),
	})
	require.NoError(t, err)
	assert.Nil(t, c.ParentID)
}

func TestCommentService_CreateReplyOnTombstone(t *testing.T) {
	parent := mk(parentID, nil, 0)
	parent.Deleted = true
	parent.Content = ""
	repo := newMemCommentRepo(parent)
	svc, _ := newTestCommentService(repo)

	reply, err := svc.CreateComment(context.Background(), stranger, &services.CreateCommentRequest{
		ProjectID: "p1",
		Content:   "still here",
		ParentID:  strPtr(parentID),
	})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parentID, *reply.ParentID)

	roots, err := svc.GetThread(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, []string{reply.ID}, ids(roots[0].Children))
}

func TestCommentService_CreateComment_Rejected(t *testing.T) {
	otherProject := mk(otherProjectID, nil, 0)
	otherProject.ProjectID = "p2"

	tests := []struct {
		name      string
		actor     models.Actor
		req       services.CreateCommentRequest
		wantErr   error
		wantCalls int
	}{
		{
			name:    "anonymous",
			actor:   models.Actor{},
			req:     services.CreateCommentRequest{ProjectID: "p1", Content: "hi"},
			wantErr: domain.ErrUnauthorized,
		},
		{
			name:    "blank content",
			actor:   author,
			req:     services.CreateCommentRequest{ProjectID: "p1", Content: "   \n\t"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "too long",
			actor:   author,
			req:     services.CreateCommentRequest{ProjectID: "p1", Content: strings.Repeat("é", config.MaxCommentLength+1)},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing project",
			actor:   author,
			req:     services.CreateCommentRequest{Content: "hi"},
			wantErr: domain.ErrValidation,
		},
		{
			name:      "unknown parent",
			actor:     author,
			req:       services.CreateCommentRequest{ProjectID: "p1", Content: "hi", ParentID: strPtr(missingID)},
			wantErr:   domain.ErrValidation,
			wantCalls: 1,
		},
		{
			name:      "parent in another project",
			actor:     author,
			req:       services.CreateCommentRequest{ProjectID: "p1", Content: "hi", ParentID: strPtr(otherProjectID)},
			wantErr:   domain.ErrValidation,
			wantCalls: 1,
		},
		{
			name:    "malformed parent id",
			actor:   author,
			req:     services.CreateCommentRequest{ProjectID: "p1", Content: "hi", ParentID: strPtr("abc")},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemCommentRepo(otherProject)
			svc, _ := newTestCommentService(repo)

			req := tt.req
			_, err := svc.CreateComment(context.Background(), tt.actor, &req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCalls, repo.calls, "store calls")
			assert.Len(t, repo.rows, 1)
		})
	}
}

func TestCommentService_CreateComment_MaxLengthAccepted(t *testing.T) {
	repo := newMemCommentRepo()
	svc, _ := newTestCommentService(repo)

	_, err := svc.CreateComment(context.Background(), author, &services.CreateCommentRequest{
		ProjectID: "p1",
		Content:   strings.Repeat("é", config.MaxCommentLength),
	})
	assert.NoError(t, err)
}

func TestCommentService_DeleteLeafErases(t *testing.T) {
	c := mk("1", nil, 0)
	c.AuthorID = author.ID
	repo := newMemCommentRepo(c)
	svc, tx := newTestCommentService(repo)

	res, err := svc.DeleteComment(context.Background(), author, "1")
	require.NoError(t, err)
	assert.Equal(t, models.DeleteOutcomeErased, res.Outcome)
	assert.Equal(t, 1, tx.runs)

	_, err = repo.GetByID(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCommentService_DeleteWithRepliesTombstones(t *testing.T) {
	parent := mk("1", nil, 0)
	parent.AuthorID = author.ID
	repo := newMemCommentRepo(parent, mk("2", strPtr("1"), 1))
	svc, _ := newTestCommentService(repo)

	res, err := svc.DeleteComment(context.Background(), author, "1")
	require.NoError(t, err)
	assert.Equal(t, models.DeleteOutcomeTombstoned, res.Outcome)

	stored, err := repo.GetByID(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, stored.Deleted)
	assert.Equal(t, "", stored.Content)
	require.NotNil(t, stored.UpdatedAt)
	assert.Equal(t, fixedNow, *stored.UpdatedAt)

	// The reply survives and still hangs off the tombstone
	roots, err := svc.GetThread(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, models.CommentStateTombstoned, roots[0].State())
	assert.Equal(t, []string{"2"}, ids(roots[0].Children))
	assert.Equal(t, "content 2", roots[0].Children[0].Content)
}

func TestCommentService_DeleteRejectedForStranger(t *testing.T) {
	c := mk("1", nil, 0)
	c.AuthorID = author.ID
	repo := newMemCommentRepo(c)
	svc, _ := newTestCommentService(repo)

	_, err := svc.DeleteComment(context.Background(), stranger, "1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := repo.GetByID(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, stored.Deleted)
	assert.Equal(t, "content 1", stored.Content)
}

func TestCommentService_DeleteRejectedForAnonymousWithoutStoreCall(t *testing.T) {
	repo := newMemCommentRepo(mk("1", nil, 0))
	svc, tx := newTestCommentService(repo)

	_, err := svc.DeleteComment(context.Background(), models.Actor{}, "1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Zero(t, repo.calls)
	assert.Zero(t, tx.runs)
}

func TestCommentService_AdminDeletesAnyComment(t *testing.T) {
	repo := newMemCommentRepo(mk("1", nil, 0))
	svc, _ := newTestCommentService(repo)

	res, err := svc.DeleteComment(context.Background(), admin, "1")
	require.NoError(t, err)
	assert.Equal(t, models.DeleteOutcomeErased, res.Outcome)
}

func TestCommentService_DeleteTombstoneConflicts(t *testing.T) {
	parent := mk("1", nil, 0)
	parent.AuthorID = author.ID
	parent.Deleted = true
	parent.Content = ""
	repo := newMemCommentRepo(parent, mk("2", strPtr("1"), 1))
	svc, _ := newTestCommentService(repo)

	_, err := svc.DeleteComment(context.Background(), author, "1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCommentService_DeleteNotFound(t *testing.T) {
	svc, _ := newTestCommentService(newMemCommentRepo())

	_, err := svc.DeleteComment(context.Background(), admin, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCommentService_DeleteRaceFallsBackToTombstone(t *testing.T) {
	c := mk("1", nil, 0)
	c.AuthorID = author.ID
	repo := newMemCommentRepo(c)
	repo.eraseConflict = true
	svc, _ := newTestCommentService(repo)

	res, err := svc.DeleteComment(context.Background(), author, "1")
	require.NoError(t, err)
	assert.Equal(t, models.DeleteOutcomeTombstoned, res.Outcome)

	stored, err := repo.GetByID(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, stored.Deleted)
}

func TestCommentService_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	repo := newMemCommentRepo()
	svc := NewCommentService(repo, &passthroughTx{}, auth.NewRoleBasedAuthorizer(), NewTreeBuilder(OrphanDrop), m, testLogger())

	c, err := svc.CreateComment(context.Background(), author, &services.CreateCommentRequest{ProjectID: "p1", Content: "hi"})
	require.NoError(t, err)
	_, err = svc.DeleteComment(context.Background(), author, c.ID)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "launchit_comments_created_total", "launchit_comments_deleted_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

// Scenario: a tombstoned parent whose last reply is erased stays until the sweeper runs
func TestCommentService_EraseReplyOfTombstone(t *testing.T) {
	parent := mk("1", nil, 0)
	parent.AuthorID = author.ID
	reply := mk("2", strPtr("1"), 1)
	reply.AuthorID = stranger.ID
	repo := newMemCommentRepo(parent, reply)
	svc, _ := newTestCommentService(repo)
	ctx := context.Background()

	res, err := svc.DeleteComment(ctx, author, "1")
	require.NoError(t, err)
	assert.Equal(t, models.DeleteOutcomeTombstoned, res.Outcome)

	res, err = svc.DeleteComment(ctx, stranger, "2")
	require.NoError(t, err)
	assert.Equal(t, models.DeleteOutcomeErased, res.Outcome)

	roots, err := svc.GetThread(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.True(t, roots[0].Deleted)
	assert.Empty(t, roots[0].Children)

	swept, err := repo.SweepTombstones(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	roots, err = svc.GetThread(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, roots)
}
