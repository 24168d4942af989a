package services

import (
	"testing"

	"github.com/nanobanana/agent/pkg/domain"
)

func completedTurn(id int64, role domain.Role) domain.Turn {
	return domain.Turn{ID: id, Role: role}
}

func TestHistoryWindow(t *testing.T) {
	var ten []domain.Turn
	for i := int64(1); i <= 10; i++ {
		role := domain.RoleUser
		if i%2 == 0 {
			role = domain.RoleAgent
		}
		ten = append(ten, completedTurn(i, role))
	}

	tests := []struct {
		name        string
		turns       []domain.Turn
		size        int
		expectedIDs []int64
	}{
		{
			name:        "fewer turns than window",
			turns:       ten[:3],
			size:        6,
			expectedIDs: []int64{1, 2, 3},
		},
		{
			name:        "exactly window size",
			turns:       ten[:6],
			size:        6,
			expectedIDs: []int64{1, 2, 3, 4, 5, 6},
		},
		{
			name:        "keeps the most recent in original order",
			turns:       ten,
			size:        6,
			expectedIDs: []int64{5, 6, 7, 8, 9, 10},
		},
		{
			name:        "empty",
			turns:       nil,
			size:        6,
			expectedIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := HistoryWindow(tt.turns, tt.size)
			if len(window) != len(tt.expectedIDs) {
				t.Fatalf("length: got %d, want %d", len(window), len(tt.expectedIDs))
			}
			for i, turn := range window {
				if turn.ID != tt.expectedIDs[i] {
					t.Errorf("window[%d]: got turn %d, want %d", i, turn.ID, tt.expectedIDs[i])
				}
			}
		})
	}
}

func TestHistoryWindowExcludesPendingTurns(t *testing.T) {
	turns := []domain.Turn{
		completedTurn(1, domain.RoleUser),
		completedTurn(2, domain.RoleAgent),
		{ID: 3, Role: domain.RoleAgent, Pending: true},
	}

	window := HistoryWindow(turns, 6)
	if len(window) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(window))
	}
	for _, turn := range window {
		if turn.Pending {
			t.Errorf("pending turn %d leaked into window", turn.ID)
		}
	}
}
