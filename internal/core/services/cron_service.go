package services

import (
	"context"
	"log"
	"time"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs the scheduled maintenance jobs: the nightly
// reconciliation repair sweep (members stuck behind a confirmed
// registration payment) and expired refresh-token cleanup.
type CronService struct {
	cron             *cron.Cron
	memberService    *MemberService
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewCronService creates a new cron service
func NewCronService(memberService *MemberService, refreshTokenRepo repositories.RefreshTokenRepository) *CronService {
	return &CronService{
		cron:             cron.New(),
		memberService:    memberService,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Start registers and launches the scheduled jobs
func (s *CronService) Start() {
	// Repair sweep nightly at 02:00; the operation is idempotent so
	// overlap with a manual repair is harmless.
	if _, err := s.cron.AddFunc("0 2 * * *", s.runActivationRepair); err != nil {
		log.Printf("Failed to schedule activation repair: %v", err)
	}

	// Token cleanup nightly at 03:00
	if _, err := s.cron.AddFunc("0 3 * * *", s.runTokenCleanup); err != nil {
		log.Printf("Failed to schedule token cleanup: %v", err)
	}

	s.cron.Start()
	log.Println("Cron service started")
}

// Stop stops the scheduler, waiting for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Cron service stopped")
}

func (s *CronService) runActivationRepair() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repaired, err := s.memberService.RepairPendingActivations(ctx)
	if err != nil {
		log.Printf("Activation repair sweep failed: %v", err)
		return
	}
	if repaired == 0 {
		log.Println("Activation repair sweep: nothing to repair")
	}
}

func (s *CronService) runTokenCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("Refresh token cleanup failed: %v", err)
	}
}
