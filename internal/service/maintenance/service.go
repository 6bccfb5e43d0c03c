package maintenance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/domain/event"
	"github.com/vertextoedge/academic-admin/internal/port"
)

// Config contains maintenance service configuration
type Config struct {
	// AuditInterval is how often persisted data is checked against the invariants
	AuditInterval time.Duration

	// RepairOccupancy rewrites course currentStudents from the enrollment count
	RepairOccupancy bool

	// BackupInterval is how often a snapshot of all collections is written
	BackupInterval time.Duration

	// BackupKeep is how many snapshots are retained; older ones are deleted
	BackupKeep int

	// TempFileMaxAge is the age after which interrupted snapshot writes are removed
	TempFileMaxAge time.Duration

	// Now is the clock used for snapshot names
	Now func() time.Time
}

// DefaultConfig returns default maintenance configuration
func DefaultConfig() *Config {
	return &Config{
		AuditInterval:   time.Hour,
		RepairOccupancy: false,
		BackupInterval:  24 * time.Hour,
		BackupKeep:      7,
		TempFileMaxAge:  24 * time.Hour,
		Now:             time.Now,
	}
}

// Violation is one broken invariant found by the audit
type Violation struct {
	Entity   string
	EntityID string
	Rule     string
	Detail   string
}

// Audit rules
const (
	RuleBalance   = "balance"
	RuleOccupancy = "occupancy"
	RuleCapacity  = "capacity"
	RuleReference = "reference"
)

// AuditReport summarizes one audit run
type AuditReport struct {
	Violations []Violation
	Repaired   int
}

// Snapshot is the content of one backup file
type Snapshot struct {
	TakenAt     time.Time                `json:"takenAt"`
	Courses     []domain.Course          `json:"courses"`
	Students    []domain.Student         `json:"students"`
	Enrollments []domain.Enrollment      `json:"enrollments"`
	Payments    []domain.Payment         `json:"payments"`
	Reminders   []domain.PaymentReminder `json:"reminders"`
}

// Service handles periodic maintenance tasks
type Service struct {
	config     *Config
	store      port.Store
	snapshots  port.SnapshotStore
	dispatcher event.EventDispatcher
	logger     *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a new maintenance Service. A nil snapshots store disables backups.
func New(cfg *Config, store port.Store, snapshots port.SnapshotStore, dispatcher event.EventDispatcher, logger *zap.Logger) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.AuditInterval == 0 {
		cfg.AuditInterval = time.Hour
	}
	if cfg.BackupInterval == 0 {
		cfg.BackupInterval = 24 * time.Hour
	}
	if cfg.BackupKeep <= 0 {
		cfg.BackupKeep = 7
	}
	if cfg.TempFileMaxAge == 0 {
		cfg.TempFileMaxAge = 24 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if dispatcher == nil {
		dispatcher = event.NewNullDispatcher()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		config:     cfg,
		store:      store,
		snapshots:  snapshots,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Start starts the maintenance service
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("maintenance service already running")
	}
	s.running = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.logger.Info("maintenance service started",
		zap.Duration("audit_interval", s.config.AuditInterval),
		zap.Bool("repair_occupancy", s.config.RepairOccupancy),
		zap.Bool("backups", s.snapshots != nil))

	s.wg.Add(1)
	go s.maintenanceLoop(ctx)

	<-ctx.Done()
	s.wg.Wait()
	s.logger.Info("maintenance service stopped")
	return nil
}

// Stop stops the maintenance service
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.running = false
}

// maintenanceLoop handles periodic maintenance tasks
func (s *Service) maintenanceLoop(ctx context.Context) {
	defer s.wg.Done()

	auditTicker := time.NewTicker(s.config.AuditInterval)
	defer auditTicker.Stop()

	// A nil channel never fires
	var backupC <-chan time.Time
	if s.snapshots != nil {
		backupTicker := time.NewTicker(s.config.BackupInterval)
		defer backupTicker.Stop()
		backupC = backupTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-auditTicker.C:
			s.runAudit()
		case <-backupC:
			s.runBackup()
		}
	}
}

func (s *Service) runBackup() {
	if _, err := s.Backup(); err != nil {
		s.logger.Error("backup failed", zap.Error(err))
	}
	if n, err := s.snapshots.CleanOldTempFiles(s.config.TempFileMaxAge); err != nil {
		s.logger.Warn("failed to clean interrupted snapshots", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("cleaned interrupted snapshots", zap.Int("count", n))
	}
}

// Backup writes a snapshot of every collection and prunes snapshots beyond
// BackupKeep. It returns the path of the new snapshot.
func (s *Service) Backup() (string, error) {
	if s.snapshots == nil {
		return "", fmt.Errorf("backups are not configured")
	}

	snap := Snapshot{TakenAt: s.config.Now().UTC()}
	var err error
	if snap.Courses, err = s.store.Courses().GetAll(); err != nil {
		return "", fmt.Errorf("failed to get courses: %w", err)
	}
	if snap.Students, err = s.store.Students().GetAll(); err != nil {
		return "", fmt.Errorf("failed to get students: %w", err)
	}
	if snap.Enrollments, err = s.store.Enrollments().GetAll(); err != nil {
		return "", fmt.Errorf("failed to get enrollments: %w", err)
	}
	if snap.Payments, err = s.store.Payments().GetAll(); err != nil {
		return "", fmt.Errorf("failed to get payments: %w", err)
	}
	if snap.Reminders, err = s.store.Reminders().GetAll(); err != nil {
		return "", fmt.Errorf("failed to get reminders: %w", err)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	name := "snapshot-" + snap.TakenAt.Format("20060102T150405Z")
	path, size, err := s.snapshots.WriteSnapshot(name, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	s.logger.Info("snapshot written", zap.String("path", path), zap.Int64("size", size))

	if err := s.pruneSnapshots(); err != nil {
		s.logger.Warn("failed to prune snapshots", zap.Error(err))
	}
	return path, nil
}

func (s *Service) pruneSnapshots() error {
	snapshots, err := s.snapshots.ListSnapshots()
	if err != nil {
		return err
	}
	for len(snapshots) > s.config.BackupKeep {
		if err := s.snapshots.DeleteSnapshot(snapshots[0].Path); err != nil {
			return err
		}
		s.logger.Debug("snapshot pruned", zap.String("path", snapshots[0].Path))
		snapshots = snapshots[1:]
	}
	return nil
}

func (s *Service) runAudit() {
	report, err := s.Audit()
	if err != nil {
		s.logger.Error("audit failed", zap.Error(err))
		return
	}
	if len(report.Violations) > 0 {
		s.logger.Warn("audit found invariant violations",
			zap.Int("violations", len(report.Violations)),
			zap.Int("repaired", report.Repaired))
	}
}

// Audit checks persisted data against the invariants: every enrollment's
// paid + pending equals its total, every course's currentStudents equals its
// enrollment count and does not exceed maxStudents, and every payment
// references an existing enrollment.
func (s *Service) Audit() (*AuditReport, error) {
	courses, err := s.store.Courses().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}
	enrollments, err := s.store.Enrollments().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollments: %w", err)
	}
	payments, err := s.store.Payments().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	report := &AuditReport{}

	enrolled := make(map[string]int, len(courses))
	known := make(map[string]bool, len(enrollments))
	for i := range enrollments {
		e := &enrollments[i]
		enrolled[e.CourseID]++
		known[e.ID] = true
		if !e.IsBalanced() {
			s.report(report, Violation{
				Entity:   "enrollment",
				EntityID: e.ID,
				Rule:     RuleBalance,
				Detail: fmt.Sprintf("paid %.2f + pending %.2f != total %.2f",
					e.PaidAmount, e.PendingAmount, e.TotalAmount),
			})
		}
	}

	for i := range courses {
		c := &courses[i]
		count := enrolled[c.ID]
		if c.CurrentStudents != count {
			s.report(report, Violation{
				Entity:   "course",
				EntityID: c.ID,
				Rule:     RuleOccupancy,
				Detail:   fmt.Sprintf("currentStudents %d, enrollments %d", c.CurrentStudents, count),
			})
			if s.config.RepairOccupancy {
				if err := s.repairOccupancy(c.ID); err != nil {
					return report, err
				}
				report.Repaired++
			}
		}
		if count > c.MaxStudents {
			s.report(report, Violation{
				Entity:   "course",
				EntityID: c.ID,
				Rule:     RuleCapacity,
				Detail:   fmt.Sprintf("enrollments %d exceed maxStudents %d", count, c.MaxStudents),
			})
		}
	}

	for _, p := range payments {
		if !known[p.EnrollmentID] {
			s.report(report, Violation{
				Entity:   "payment",
				EntityID: p.ID,
				Rule:     RuleReference,
				Detail:   fmt.Sprintf("enrollment %s does not exist", p.EnrollmentID),
			})
		}
	}

	return report, nil
}

func (s *Service) report(r *AuditReport, v Violation) {
	r.Violations = append(r.Violations, v)
	s.logger.Warn("invariant violated",
		zap.String("entity", v.Entity),
		zap.String("entity_id", v.EntityID),
		zap.String("rule", v.Rule),
		zap.String("detail", v.Detail))
	s.dispatcher.Dispatch(event.NewInvariantViolated(v.Entity, v.EntityID, v.Rule, v.Detail))
}

// repairOccupancy recounts inside the store transaction, so enrollments
// created since the audit read are included
func (s *Service) repairOccupancy(courseID string) error {
	updated, err := s.store.Courses().RecountOccupancy(courseID)
	if err != nil {
		return fmt.Errorf("failed to repair course %s: %w", courseID, err)
	}
	if updated != nil {
		s.logger.Info("course occupancy repaired",
			zap.String("course_id", courseID),
			zap.Int("current_students", updated.CurrentStudents))
	}
	return nil
}
