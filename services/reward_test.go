package services

import (
	"testing"
	"time"

	"arcticcare-api/models"
	"arcticcare-api/pkg/apperrors"
)

func TestAwardAppendsLedgerAndIncrementsBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewRewardService(db)
	user := createTestUser(t, db, "ana", 0, time.Now())

	total, err := svc.Award(user.ID, models.ContributionIssueReported, 15, "Reporte: teste")
	if err != nil {
		t.Fatalf("Award: %v", err)
	}
	if total != 15 {
		t.Errorf("new total = %d, want 15", total)
	}

	var contributions []models.Contribution
	if err := db.Where("user_id = ?", user.ID).Find(&contributions).Error; err != nil {
		t.Fatal(err)
	}
	if len(contributions) != 1 {
		t.Fatalf("contribution rows = %d, want 1", len(contributions))
	}
	if contributions[0].Type != models.ContributionIssueReported || contributions[0].Points != 15 {
		t.Errorf("unexpected ledger row: %+v", contributions[0])
	}

	var reloaded models.User
	if err := db.First(&reloaded, "id = ?", user.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.Points != 15 {
		t.Errorf("cached points = %d, want 15", reloaded.Points)
	}
	if reloaded.Level != 1 {
		t.Errorf("level = %d, want 1", reloaded.Level)
	}
}

func TestAwardRecomputesLevel(t *testing.T) {
	db := newTestDB(t)
	svc := NewRewardService(db)
	user := createTestUser(t, db, "bruno", 95, time.Now())

	if _, err := svc.Award(user.ID, models.ContributionComment, 10, "comentário"); err != nil {
		t.Fatalf("Award: %v", err)
	}

	var reloaded models.User
	db.First(&reloaded, "id = ?", user.ID)
	if reloaded.Level != 2 {
		t.Errorf("level after crossing 100 = %d, want 2", reloaded.Level)
	}
}

func TestAwardUserNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewRewardService(db)

	_, err := svc.Award("missing-user", models.ContributionComment, 2, "x")
	if !apperrors.IsNotFound(err) {
		t.Fatalf("err = %v, want NotFound", err)
	}

	// Validate-before-mutate: no ledger row may exist for the missing user.
	var count int64
	db.Model(&models.Contribution{}).Count(&count)
	if count != 0 {
		t.Errorf("ledger rows after failed award = %d, want 0", count)
	}
}

func TestAwardRejectsInvalidInput(t *testing.T) {
	db := newTestDB(t)
	svc := NewRewardService(db)
	user := createTestUser(t, db, "carla", 0, time.Now())

	if _, err := svc.Award(user.ID, models.ContributionComment, -5, "x"); !apperrors.IsInvalidInput(err) {
		t.Errorf("negative points: err = %v, want InvalidInput", err)
	}
	if _, err := svc.Award(user.ID, models.ContributionType("hacking"), 5, "x"); !apperrors.IsInvalidInput(err) {
		t.Errorf("unknown type: err = %v, want InvalidInput", err)
	}

	var count int64
	db.Model(&models.Contribution{}).Count(&count)
	if count != 0 {
		t.Errorf("ledger rows after rejected awards = %d, want 0", count)
	}
}

// Ledger-sum invariant: after any sequence of awards the cached balance
// equals the sum of the user's contribution rows.
func TestLedgerSumMatchesBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewRewardService(db)
	user := createTestUser(t, db, "diego", 0, time.Now())

	awards := []struct {
		ctype  models.ContributionType
		points int64
	}{
		{models.ContributionAccountCreated, 10},
		{models.ContributionIssueReported, 15},
		{models.ContributionIssueConfirmed, 5},
		{models.ContributionComment, 2},
		{models.ContributionStreakBonus, 7},
	}
	for _, a := range awards {
		if _, err := svc.Award(user.ID, a.ctype, a.points, "seq"); err != nil {
			t.Fatalf("Award(%s): %v", a.ctype, err)
		}
	}

	sum, err := svc.LedgerSum(user.ID)
	if err != nil {
		t.Fatal(err)
	}

	var reloaded models.User
	db.First(&reloaded, "id = ?", user.ID)
	if sum != reloaded.Points {
		t.Errorf("ledger sum %d != cached points %d", sum, reloaded.Points)
	}
	if sum != 39 {
		t.Errorf("ledger sum = %d, want 39", sum)
	}
}

func TestContributionsPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewRewardService(db)
	user := createTestUser(t, db, "elisa", 0, time.Now())

	for i := 0; i < 25; i++ {
		if _, err := svc.Award(user.ID, models.ContributionComment, 2, "c"); err != nil {
			t.Fatal(err)
		}
	}

	entries, total, err := svc.Contributions(user.ID, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 25 {
		t.Errorf("total = %d, want 25", total)
	}
	if len(entries) != 10 {
		t.Errorf("page len = %d, want 10", len(entries))
	}
}
