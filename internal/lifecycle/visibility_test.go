package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-bulletin-api/internal/models"
)

func TestIsVisible(t *testing.T) {
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  bool
	}{
		{"no window", nil, nil, true},
		{"not yet open", &future, nil, false},
		{"already closed", nil, &past, false},
		{"open window", &past, &future, true},
		{"starts now", &now, nil, true},
		{"ends now", nil, &now, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := &models.Announcement{VisibilityStartAt: tc.start, VisibilityEndAt: tc.end}
			require.Equal(t, tc.want, IsVisible(item, now))
		})
	}
}

func TestFilterVisible(t *testing.T) {
	future := now.Add(time.Hour)
	items := []models.Announcement{{ID: 1}, {ID: 2, VisibilityStartAt: &future}, {ID: 3}}
	out := FilterVisible(items, now)
	require.Len(t, out, 2)
	require.Equal(t, int64(1), out[0].ID)
	require.Equal(t, int64(3), out[1].ID)
}
