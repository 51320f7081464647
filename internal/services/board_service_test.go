package services_test

import (
	"testing"
	"time"

	"hiring_backend/internal/models"
	"hiring_backend/internal/services/dto"
	"hiring_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardViews(t *testing.T) {
	f := newFixture(t)
	hr := testutil.CreateUser(t, f.db, "HR One", models.DesignationHR)
	manager := testutil.CreateUser(t, f.db, "Manager One", models.DesignationManager)

	assigned := testutil.CreateCandidate(t, f.db, hr.ID)
	testutil.CreateCandidate(t, f.db, hr.ID)
	assignment := testutil.CreateAssignment(t, f.db, assigned, hr, manager)

	_, err := f.assignments.UpdateAssignment(f.db, manager.ID, assignment.ID, &dto.UpdateAssignmentRequest{
		Status:   ptr(string(models.AssignmentStatusRejected)),
		Feedback: ptr("Not a fit"),
	})
	require.NoError(t, err)

	list, err := f.board.GetCandidates(f.db)
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, int64(1), list.Stats.Assigned)
	assert.Equal(t, int64(1), list.Stats.NotAssigned)
	assert.Equal(t, int64(1), list.Stats.WithFeedback)
	for _, c := range list.Candidates {
		if c.ID == assigned.ID {
			assert.True(t, c.HasAssignment)
			assert.Equal(t, manager.Name, c.AssignedTo)
			assert.Equal(t, hr.Name, c.AssignedBy)
			assert.Equal(t, "Not a fit", c.ManagerFeedback)
		} else {
			assert.False(t, c.HasAssignment)
			assert.Equal(t, dto.NotAssigned, c.AssignmentStatus)
			assert.Equal(t, dto.NotAvailable, c.AssignedTo)
		}
	}

	stats, err := f.board.GetStats(f.db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalCandidates)
	assert.Equal(t, int64(1), stats.TotalAssignments)
	assert.Equal(t, int64(1), stats.CandidateStatusCounts[string(models.CandidateStatusRejected)])
	assert.Equal(t, int64(1), stats.CandidateStatusCounts[string(models.CandidateStatusNew)])
	assert.Equal(t, int64(1), stats.Ratings.WithManagerFeedback)

	timeline, err := f.board.GetTimeline(f.db)
	require.NoError(t, err)
	types := map[string]int{}
	for i, e := range timeline.Events {
		types[e.Type]++
		if i > 0 {
			assert.False(t, e.Timestamp.After(timeline.Events[i-1].Timestamp), "события должны идти от новых к старым")
		}
	}
	assert.Equal(t, 2, types[dto.TimelineCandidateCreated])
	assert.Equal(t, 1, types[dto.TimelineCandidateAssigned])
	assert.Equal(t, 1, types[dto.TimelineFeedbackSubmitted])
}

func TestBoardTimeline_KeepsNewestFifty(t *testing.T) {
	f := newFixture(t)
	hr := testutil.CreateUser(t, f.db, "HR One", models.DesignationHR)
	manager := testutil.CreateUser(t, f.db, "Manager One", models.DesignationManager)

	// 40 кандидатов (минуты 0, 2, ..., 78) и 20 назначений (минуты 1, 3, ..., 39): всего 60 событий
	base := time.Now().Add(-24 * time.Hour).Truncate(time.Second)
	for i := 0; i < 40; i++ {
		c := testutil.CreateCandidate(t, f.db, hr.ID)
		require.NoError(t, f.db.Model(&models.Candidate{}).Where("id = ?", c.ID).
			Update("created_at", base.Add(time.Duration(2*i)*time.Minute)).Error)
		if i < 20 {
			a := testutil.CreateAssignment(t, f.db, c, hr, manager)
			require.NoError(t, f.db.Model(&models.Assignment{}).Where("id = ?", a.ID).
				Update("assigned_at", base.Add(time.Duration(2*i+1)*time.Minute)).Error)
		}
	}

	timeline, err := f.board.GetTimeline(f.db)
	require.NoError(t, err)
	require.Len(t, timeline.Events, 50)
	assert.Equal(t, 50, timeline.Total)

	assert.WithinDuration(t, base.Add(78*time.Minute), timeline.Events[0].Timestamp, time.Second)
	assert.Equal(t, dto.TimelineCandidateCreated, timeline.Events[0].Type)

	cutoff := base.Add(10 * time.Minute)
	types := map[string]int{}
	for i, e := range timeline.Events {
		types[e.Type]++
		assert.False(t, e.Timestamp.Before(cutoff), "в таймлайн попало событие старше десяти самых ранних")
		if i > 0 {
			assert.False(t, e.Timestamp.After(timeline.Events[i-1].Timestamp), "события должны идти от новых к старым")
		}
	}
	assert.Equal(t, 35, types[dto.TimelineCandidateCreated])
	assert.Equal(t, 15, types[dto.TimelineCandidateAssigned])
}

func TestReconcileCandidateStatuses(t *testing.T) {
	f := newFixture(t)
	hr := testutil.CreateUser(t, f.db, "HR One", models.DesignationHR)
	manager := testutil.CreateUser(t, f.db, "Manager One", models.DesignationManager)

	stale := testutil.CreateCandidate(t, f.db, hr.ID)
	a := testutil.CreateAssignment(t, f.db, stale, hr, manager)
	require.NoError(t, f.db.Model(&models.Assignment{}).Where("id = ?", a.ID).
		Update("status", models.AssignmentStatusFeedbackSubmitted).Error)

	inSync := testutil.CreateCandidate(t, f.db, hr.ID)
	testutil.CreateAssignment(t, f.db, inSync, hr, manager)

	fixed, err := f.reconcile.ReconcileCandidateStatuses(f.db)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)

	var stored models.Candidate
	require.NoError(t, f.db.First(&stored, "id = ?", stale.ID).Error)
	assert.Equal(t, models.CandidateStatusUnderReview, stored.Status)

	fixed, err = f.reconcile.ReconcileCandidateStatuses(f.db)
	require.NoError(t, err)
	assert.Zero(t, fixed)
}
