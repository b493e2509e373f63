package cli

import (
	"testing"

	"github.com/quadmind/ingestwatch/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatSummary(t *testing.T) {
	tests := []struct {
		name         string
		notification model.Notification
		want         string
	}{
		{
			name: "all domains in display order",
			notification: model.Notification{
				Kind:  model.NotificationSummary,
				Total: 12,
				DomainCounts: map[model.Domain]int{
					model.DomainSoul: 3,
					model.DomainMind: 5,
					model.DomainBody: 4,
				},
			},
			want: "12 files ingested: Mind: 5, Body: 4, Soul: 3",
		},
		{
			name: "zero counts omitted",
			notification: model.Notification{
				Kind:  model.NotificationSummary,
				Total: 6,
				DomainCounts: map[model.Domain]int{
					model.DomainHeart: 6,
					model.DomainBody:  0,
				},
			},
			want: "6 files ingested: Heart: 6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSummary(tt.notification))
		})
	}
}
