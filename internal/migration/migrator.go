package migration

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// State is the structural shape of the OAuth tables.
type State string

const (
	// StateLegacy has one combined oauthAccessToken table and no oauthClient.
	StateLegacy State = "legacy"
	// StateSplit has oauthClient, oauthRefreshToken, the split
	// oauthAccessToken and oauthConsent.referenceId.
	StateSplit State = "split"
	// StateMixed is anything else, typically an interrupted run. It cannot
	// serve traffic.
	StateMixed State = "mixed"
)

// advisoryLockKey serializes migrator runs on postgres.
const advisoryLockKey int64 = 0x6f61757468 // "oauth"

// One consent row per (user, client, reference). A NULL reference counts as a
// single key, which a plain unique index would not enforce.
const (
	consentKeyIndex       = "idx_oauthConsent_user_client_ref"
	createConsentKeyIndex = `CREATE UNIQUE INDEX IF NOT EXISTS "` + consentKeyIndex +
		`" ON "oauthConsent" ("userId", "clientId", COALESCE("referenceId", ''))`
	dropConsentKeyIndex = `DROP INDEX IF EXISTS "` + consentKeyIndex + `"`
)

// Step is one ordered schema change.
type Step struct {
	Name string
	Run  func(db *gorm.DB) error
}

// Migrator transforms the OAuth tables between the legacy and split shapes.
// It must run with exclusive access, before the server accepts traffic.
type Migrator struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New returns a Migrator over db.
func New(db *gorm.DB, logger *zap.Logger) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{db: db, logger: logger}
}

// Status inspects the schema and reports its state.
func (m *Migrator) Status(ctx context.Context) (State, error) {
	return detectState(m.db.WithContext(ctx).Migrator()), nil
}

func detectState(mg gorm.Migrator) State {
	hasClient := mg.HasTable(&splitClient{})
	hasRefresh := mg.HasTable(&splitRefreshToken{})
	hasAccess := mg.HasTable(&splitAccessToken{})
	splitAccess := hasAccess && mg.HasColumn(&splitAccessToken{}, "RefreshID")
	legacyAccess := hasAccess && mg.HasColumn(&legacyAccessToken{}, "AccessToken")
	hasConsent := mg.HasTable(&consent{})
	consentRef := hasConsent && mg.HasColumn(&consent{}, "ReferenceID")

	switch {
	case hasClient && hasRefresh && splitAccess && consentRef:
		return StateSplit
	case !hasClient && !hasRefresh && !splitAccess && !consentRef && (!hasAccess || legacyAccess):
		return StateLegacy
	default:
		return StateMixed
	}
}

// UpSteps returns the forward steps in execution order.
func UpSteps(logger *zap.Logger) []Step {
	return []Step{
		{Name: "create oauthClient", Run: func(db *gorm.DB) error {
			return createIfMissing(db.Migrator(), &splitClient{})
		}},
		{Name: "create oauthRefreshToken", Run: func(db *gorm.DB) error {
			return createIfMissing(db.Migrator(), &splitRefreshToken{})
		}},
		{Name: "drop legacy oauthAccessToken", Run: func(db *gorm.DB) error {
			mg := db.Migrator()
			if !mg.HasTable(&legacyAccessToken{}) || mg.HasColumn(&splitAccessToken{}, "RefreshID") {
				return nil
			}
			rows, err := tableRowCount(db, "oauthAccessToken")
			if err != nil {
				return err
			}
			logger.Warn("dropping legacy oauthAccessToken; all existing access and refresh tokens are discarded",
				zap.Int64("rows", rows),
			)
			return mg.DropTable(&legacyAccessToken{})
		}},
		{Name: "create split oauthAccessToken", Run: func(db *gorm.DB) error {
			return createIfMissing(db.Migrator(), &splitAccessToken{})
		}},
		{Name: "add oauthConsent.referenceId", Run: func(db *gorm.DB) error {
			mg := db.Migrator()
			switch {
			case !mg.HasTable(&consent{}):
				if err := mg.CreateTable(&consent{}); err != nil {
					return err
				}
			case !mg.HasColumn(&consent{}, "ReferenceID"):
				if err := mg.AddColumn(&consent{}, "ReferenceID"); err != nil {
					return err
				}
			}
			return db.Exec(createConsentKeyIndex).Error
		}},
	}
}

// DownSteps returns the backward steps in execution order.
func DownSteps(logger *zap.Logger) []Step {
	return []Step{
		{Name: "drop oauthConsent.referenceId", Run: func(db *gorm.DB) error {
			mg := db.Migrator()
			if !mg.HasTable(&consent{}) {
				return nil
			}
			if err := db.Exec(dropConsentKeyIndex).Error; err != nil {
				return err
			}
			if !mg.HasColumn(&consent{}, "ReferenceID") {
				return nil
			}
			return mg.DropColumn(&consent{}, "ReferenceID")
		}},
		{Name: "drop split oauthAccessToken", Run: func(db *gorm.DB) error {
			mg := db.Migrator()
			if !mg.HasTable(&splitAccessToken{}) || mg.HasColumn(&legacyAccessToken{}, "AccessToken") {
				return nil
			}
			rows, err := tableRowCount(db, "oauthAccessToken")
			if err != nil {
				return err
			}
			logger.Warn("dropping split oauthAccessToken; all existing access tokens are discarded",
				zap.Int64("rows", rows),
			)
			return mg.DropTable(&splitAccessToken{})
		}},
		{Name: "create legacy oauthAccessToken", Run: func(db *gorm.DB) error {
			return createIfMissing(db.Migrator(), &legacyAccessToken{})
		}},
		{Name: "drop oauthRefreshToken", Run: func(db *gorm.DB) error {
			return dropIfPresent(db.Migrator(), &splitRefreshToken{})
		}},
		{Name: "drop oauthClient", Run: func(db *gorm.DB) error {
			return dropIfPresent(db.Migrator(), &splitClient{})
		}},
	}
}

// tableRowCount counts on a fresh statement so the Table() scope never leaks
// into a later step's Migrator calls.
func tableRowCount(db *gorm.DB, table string) (int64, error) {
	var n int64
	err := db.Session(&gorm.Session{NewDB: true}).Table(table).Count(&n).Error
	return n, err
}

func createIfMissing(mg gorm.Migrator, table any) error {
	if mg.HasTable(table) {
		return nil
	}
	return mg.CreateTable(table)
}

func dropIfPresent(mg gorm.Migrator, table any) error {
	if !mg.HasTable(table) {
		return nil
	}
	return mg.DropTable(table)
}

// Up moves the schema to the split shape. Existing token rows are discarded.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, DirectionUp, []any{&identityUser{}, &identitySession{}}, UpSteps(m.logger))
}

// Down restores the legacy shape. Split token rows are discarded.
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, DirectionDown, []any{&legacyApplication{}, &identityUser{}}, DownSteps(m.logger))
}

func (m *Migrator) run(ctx context.Context, dir Direction, required []any, steps []Step) error {
	return m.exclusive(ctx, func(db *gorm.DB) error {
		mg := db.Migrator()
		for _, table := range required {
			if !mg.HasTable(table) {
				name := table.(interface{ TableName() string }).TableName()
				return &MigrationError{
					Direction: dir,
					Step:      "preflight",
					Err:       fmt.Errorf("%w: %s", ErrMissingPrerequisite, name),
				}
			}
		}

		for i, step := range steps {
			m.logger.Info("applying migration step",
				zap.String("direction", string(dir)),
				zap.Int("step", i+1),
				zap.String("name", step.Name),
			)
			if err := step.Run(db); err != nil {
				return &MigrationError{Direction: dir, Step: step.Name, Err: err}
			}
		}

		m.logger.Info("migration complete",
			zap.String("direction", string(dir)),
			zap.String("state", string(detectState(mg))),
		)
		return nil
	})
}

// exclusive pins one connection for the whole run and, on postgres, holds a
// session advisory lock on it so concurrent migrators queue up.
func (m *Migrator) exclusive(ctx context.Context, fn func(db *gorm.DB) error) error {
	return m.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		// Steps chain off conn; a NewDB session gives each chain its own
		// statement while keeping the pinned connection.
		conn = conn.Session(&gorm.Session{NewDB: true})
		if conn.Dialector.Name() != "postgres" {
			return fn(conn)
		}
		if err := conn.Exec("SELECT pg_advisory_lock(?)", advisoryLockKey).Error; err != nil {
			return fmt.Errorf("acquire migration lock: %w", err)
		}
		defer func() {
			if err := conn.Exec("SELECT pg_advisory_unlock(?)", advisoryLockKey).Error; err != nil {
				m.logger.Error("release migration lock", zap.Error(err))
			}
		}()
		return fn(conn)
	})
}
