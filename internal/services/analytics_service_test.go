package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/repositories"
)

func TestRecordAndSummary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnalyticsService(repositories.NewAnalyticsRepository(db))
	user := createTestUser(t, db, "a@example.com")
	ctx := context.Background()

	svc.Record(ctx, user.ID, models.EventSermonCreated, "s1", nil)
	svc.Record(ctx, user.ID, models.EventContentGenerated, "s1", map[string]any{"content_type": "devotional"})
	svc.Record(ctx, user.ID, models.EventContentGenerated, "s1", map[string]any{"content_type": "sermon_notes"})
	svc.Record(ctx, user.ID, models.EventDevotionalViewed, "s1", nil)

	summary, err := svc.Summary(user.ID, 30)
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.SermonsCreated)
	assert.Equal(t, int64(2), summary.ContentGenerated)
	assert.Equal(t, int64(1), summary.DevotionalViews)
	assert.Equal(t, int64(1), summary.ByContentType["devotional"])
	assert.Equal(t, int64(1), summary.ByContentType["sermon_notes"])
}

func TestExportCSVQuotesEveryField(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnalyticsService(repositories.NewAnalyticsRepository(db))
	user := createTestUser(t, db, "a@example.com")

	svc.Record(context.Background(), user.ID, models.EventContentExported, "s1", map[string]any{
		"note": `said "go"`,
	})

	data, err := svc.ExportCSV(user.ID, time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\r\n"), "\r\n")
	require.Len(t, lines, 2)

	assert.Equal(t, `"event_id","event_type","sermon_id","metadata","created_at"`, lines[0])

	// Every field quoted, embedded quotes doubled.
	for _, field := range strings.Split(lines[1], `","`) {
		assert.NotEmpty(t, field)
	}
	assert.True(t, strings.HasPrefix(lines[1], `"`))
	assert.True(t, strings.HasSuffix(lines[1], `"`))
	assert.Contains(t, lines[1], `said \""go\""`)
}

func TestRecordSwallowsFailures(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnalyticsService(repositories.NewAnalyticsRepository(db))

	// Closing the underlying pool makes inserts fail; Record must not panic
	// or surface the error.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), "u1", models.EventSermonCreated, "s1", nil)
	})
}
