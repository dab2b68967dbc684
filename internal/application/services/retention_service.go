package services

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/robfig/cron/v3"

	"github.com/gridbase/backend/internal/domain/ports"
	"github.com/gridbase/backend/pkg/constants"
)

const defaultRetentionDays = 30

// RetentionService permanently purges trashed fields and tables once they
// have sat in the trash longer than the retention window. Runs nightly.
type RetentionService struct {
	tables    ports.TableStore
	fields    ports.FieldStore
	schemaOps ports.SchemaOps
	days      int
	cron      *cron.Cron
}

// NewRetentionService creates a new RetentionService. The window is read from
// TRASH_RETENTION_DAYS, defaulting to 30.
func NewRetentionService(tables ports.TableStore, fields ports.FieldStore, schemaOps ports.SchemaOps) *RetentionService {
	days := defaultRetentionDays
	if v := os.Getenv("TRASH_RETENTION_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			days = parsed
		}
	}
	return &RetentionService{
		tables:    tables,
		fields:    fields,
		schemaOps: schemaOps,
		days:      days,
		cron:      cron.New(),
	}
}

// Start schedules the nightly sweep
func (s *RetentionService) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		s.Sweep(context.Background())
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("⏰ Trash retention sweeper scheduled (window %d days)", s.days)
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish
func (s *RetentionService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Sweep purges everything past the retention window. Field documents go
// first; their orphaned row data was already invisible through the schema.
func (s *RetentionService) Sweep(ctx context.Context) {
	log.Printf("🧹 Trash sweep started")

	fields, err := s.fields.ListTrashedBefore(ctx, s.days)
	if err != nil {
		log.Printf("❌ RetentionService: listing trashed fields failed: %v", err)
	} else {
		for _, field := range fields {
			if err := s.fields.Delete(ctx, field.ID); err != nil {
				log.Printf("⚠️ RetentionService: purging field %s failed: %v", field.ID, err)
				continue
			}
			log.Printf("🧹 Purged field %s", field.Slug)
		}
	}

	tables, err := s.tables.ListTrashedBefore(ctx, s.days)
	if err != nil {
		log.Printf("❌ RetentionService: listing trashed tables failed: %v", err)
		return
	}
	for _, table := range tables {
		if err := s.tables.Delete(ctx, table.ID); err != nil {
			log.Printf("⚠️ RetentionService: purging table %s failed: %v", table.Slug, err)
			continue
		}
		if err := s.schemaOps.DropDataTable(ctx, constants.DataTableName(table.Slug)); err != nil {
			log.Printf("⚠️ RetentionService: dropping data table for %s failed: %v", table.Slug, err)
		}
		log.Printf("🧹 Purged table %s", table.Slug)
	}

	log.Printf("🧹 Trash sweep finished")
}
