package services

import (
	"testing"
	"time"

	"arcticcare-api/models"
	"arcticcare-api/pkg/apperrors"

	"github.com/google/uuid"
)

func seedBadge(t *testing.T, svc *BadgeService, name string, points int64, req models.BadgeRequirement) *models.Badge {
	t.Helper()
	badge := &models.Badge{
		Name:        name,
		Description: name,
		Icon:        "🏅",
		Points:      points,
		Category:    "test",
		Requirement: req,
	}
	if err := svc.CreateBadge(badge); err != nil {
		t.Fatalf("CreateBadge(%s): %v", name, err)
	}
	return badge
}

func TestTryUnlockAwardsOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	user := createTestUser(t, db, "joana", 0, time.Now())
	badge := seedBadge(t, svc, "Primeiro Reporte", 10, models.BadgeRequirement{Issues: 1})

	result, err := svc.TryUnlock(user.ID, badge.ID)
	if err != nil {
		t.Fatalf("TryUnlock: %v", err)
	}
	if result.Name != "Primeiro Reporte" || result.PointsEarned != 10 {
		t.Errorf("unexpected result: %+v", result)
	}

	var reloaded models.User
	db.First(&reloaded, "id = ?", user.ID)
	if reloaded.Points != 10 {
		t.Errorf("points after unlock = %d, want 10", reloaded.Points)
	}

	var ledger []models.Contribution
	db.Where("user_id = ? AND type = ?", user.ID, models.ContributionBadgeUnlocked).Find(&ledger)
	if len(ledger) != 1 {
		t.Fatalf("badge_unlocked rows = %d, want 1", len(ledger))
	}

	// second attempt: Conflict, and a true no-op
	_, err = svc.TryUnlock(user.ID, badge.ID)
	if !apperrors.IsConflict(err) {
		t.Fatalf("second unlock err = %v, want Conflict", err)
	}

	var badgeRows int64
	db.Model(&models.UserBadge{}).Where("user_id = ?", user.ID).Count(&badgeRows)
	if badgeRows != 1 {
		t.Errorf("user_badge rows = %d, want 1", badgeRows)
	}
	db.First(&reloaded, "id = ?", user.ID)
	if reloaded.Points != 10 {
		t.Errorf("points after repeat unlock = %d, want 10 (no double award)", reloaded.Points)
	}
}

func TestTryUnlockMissingEntities(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	user := createTestUser(t, db, "karin", 0, time.Now())
	badge := seedBadge(t, svc, "Vigilante", 50, models.BadgeRequirement{Issues: 10})

	if _, err := svc.TryUnlock(user.ID, "missing-badge"); !apperrors.IsNotFound(err) {
		t.Errorf("missing badge err = %v, want NotFound", err)
	}
	if _, err := svc.TryUnlock("missing-user", badge.ID); !apperrors.IsNotFound(err) {
		t.Errorf("missing user err = %v, want NotFound", err)
	}
}

func TestCreateBadgeValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)

	err := svc.CreateBadge(&models.Badge{Name: "Sem Regra", Points: 5})
	if !apperrors.IsInvalidInput(err) {
		t.Errorf("empty requirement err = %v, want InvalidInput", err)
	}

	err = svc.CreateBadge(&models.Badge{
		Name:        "Duas Regras",
		Points:      5,
		Requirement: models.BadgeRequirement{Issues: 1, Comments: 1},
	})
	if !apperrors.IsInvalidInput(err) {
		t.Errorf("two-predicate requirement err = %v, want InvalidInput", err)
	}

	seedBadge(t, svc, "Única", 5, models.BadgeRequirement{Points: 10})
	err = svc.CreateBadge(&models.Badge{
		Name:        "Única",
		Points:      5,
		Requirement: models.BadgeRequirement{Points: 10},
	})
	if !apperrors.IsConflict(err) {
		t.Errorf("duplicate name err = %v, want Conflict", err)
	}
}

func TestEvaluateForUserUnlocksOnThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	user := createTestUser(t, db, "lucas", 0, time.Now())
	seedBadge(t, svc, "Primeiro Reporte", 10, models.BadgeRequirement{Issues: 1})
	seedBadge(t, svc, "Vigilante", 50, models.BadgeRequirement{Issues: 10})

	// no issues yet: nothing unlocks
	unlocked, err := svc.EvaluateForUser(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(unlocked) != 0 {
		t.Fatalf("unlocked with zero issues: %+v", unlocked)
	}

	issue := models.Issue{
		ID:         uuid.NewString(),
		Slug:       "teste-" + uuid.NewString()[:8],
		Title:      "teste",
		Category:   models.CategoryWaste,
		Severity:   models.SeverityLow,
		Status:     models.StatusOpen,
		ReporterID: user.ID,
	}
	if err := db.Create(&issue).Error; err != nil {
		t.Fatal(err)
	}

	unlocked, err = svc.EvaluateForUser(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(unlocked) != 1 || unlocked[0].Name != "Primeiro Reporte" {
		t.Fatalf("unlocked = %+v, want exactly Primeiro Reporte", unlocked)
	}

	// re-evaluating is idempotent
	unlocked, err = svc.EvaluateForUser(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(unlocked) != 0 {
		t.Errorf("second evaluation unlocked %+v, want none", unlocked)
	}
}

// A point-bearing unlock can satisfy a points predicate in the same pass.
func TestEvaluateForUserCascadesPoints(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	user := createTestUser(t, db, "marta", 95, time.Now())
	seedBadge(t, svc, "Primeiro Reporte", 10, models.BadgeRequirement{Issues: 1})
	seedBadge(t, svc, "Centenário", 20, models.BadgeRequirement{Points: 100})

	issue := models.Issue{
		ID:         uuid.NewString(),
		Slug:       "cascata-" + uuid.NewString()[:8],
		Title:      "cascata",
		Category:   models.CategoryOther,
		Severity:   models.SeverityLow,
		Status:     models.StatusOpen,
		ReporterID: user.ID,
	}
	if err := db.Create(&issue).Error; err != nil {
		t.Fatal(err)
	}

	unlocked, err := svc.EvaluateForUser(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(unlocked) != 2 {
		t.Fatalf("unlocked = %+v, want both badges (95+10 crosses 100)", unlocked)
	}
}

// Evaluation order follows badge creation time, not storage retrieval order.
// The points badge is inserted first but created later; the cascade only
// reaches it because the issue badge is evaluated first.
func TestEvaluateForUserOrdersByCreation(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	user := createTestUser(t, db, "nilda", 95, time.Now())

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	pointsBadge := seedBadge(t, svc, "Centenário", 20, models.BadgeRequirement{Points: 100})
	issueBadge := seedBadge(t, svc, "Primeiro Reporte", 10, models.BadgeRequirement{Issues: 1})
	db.Model(&models.Badge{}).Where("id = ?", pointsBadge.ID).Update("created_at", base.Add(time.Hour))
	db.Model(&models.Badge{}).Where("id = ?", issueBadge.ID).Update("created_at", base)

	issue := models.Issue{
		ID:         uuid.NewString(),
		Slug:       "ordem-" + uuid.NewString()[:8],
		Title:      "ordem",
		Category:   models.CategoryOther,
		Severity:   models.SeverityLow,
		Status:     models.StatusOpen,
		ReporterID: user.ID,
	}
	if err := db.Create(&issue).Error; err != nil {
		t.Fatal(err)
	}

	unlocked, err := svc.EvaluateForUser(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(unlocked) != 2 {
		t.Fatalf("unlocked = %+v, want both badges", unlocked)
	}
	if unlocked[0].Name != "Primeiro Reporte" || unlocked[1].Name != "Centenário" {
		t.Errorf("unlock order = [%s, %s], want creation order", unlocked[0].Name, unlocked[1].Name)
	}
}

func TestSeedDefaultBadgesIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)

	if err := svc.SeedDefaultBadges(); err != nil {
		t.Fatal(err)
	}
	if err := svc.SeedDefaultBadges(); err != nil {
		t.Fatal(err)
	}

	var count int64
	db.Model(&models.Badge{}).Count(&count)
	if count != int64(len(models.DefaultBadges)) {
		t.Errorf("badge count = %d, want %d", count, len(models.DefaultBadges))
	}
}
