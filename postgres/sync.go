package postgres

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/xy-planning-network/enum"
	"gorm.io/gorm"
)

// TypeName derives the name of the PostgreSQL ENUM type backing t,
// snake casing each segment of its name:
//
//	Calendar::DayOfWeek => calendar_day_of_week
func TypeName(t *enum.Type) string {
	var b strings.Builder
	for i, seg := range strings.Split(t.Name(), "::") {
		if i > 0 {
			b.WriteByte('_')
		}
		b.WriteString(snake(seg))
	}

	return b.String()
}

func snake(s string) string {
	rs := []rune(s)

	var b strings.Builder
	for i, r := range rs {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(rs[i-1]) || unicode.IsDigit(rs[i-1]) ||
				(i+1 < len(rs) && unicode.IsLower(rs[i+1]) && unicode.IsUpper(rs[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		case r < unicode.MaxASCII && (unicode.IsLower(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	return b.String()
}

func quoteIdent(s string) string { return `"` + strings.ReplaceAll(s, `"`, `""`) + `"` }

func quoteLiteral(s string) string { return `'` + strings.ReplaceAll(s, `'`, `''`) + `'` }

// syncStatements lists the statements creating t's ENUM type when missing
// and adding any member names it lacks.
func syncStatements(t *enum.Type) []string {
	name := quoteIdent(TypeName(t))
	labels := t.Names()

	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = quoteLiteral(l)
	}

	stmts := []string{fmt.Sprintf(
		"DO $$ BEGIN CREATE TYPE %s AS ENUM (%s); EXCEPTION WHEN duplicate_object THEN NULL; END $$;",
		name,
		strings.Join(quoted, ", "),
	)}

	for _, q := range quoted {
		stmts = append(stmts, fmt.Sprintf("ALTER TYPE %s ADD VALUE IF NOT EXISTS %s;", name, q))
	}

	return stmts
}

// SyncType creates the ENUM type backing t, or extends it with the member names it lacks.
// Labels are never removed, so rows written by older releases stay readable.
//
// SyncType returns ErrNotClosed for abstract and dynamic Types,
// whose members are not known ahead of time.
func SyncType(db *gorm.DB, t *enum.Type) error {
	if t == nil || t.IsAbstract() || !t.Policy().Closed() {
		return fmt.Errorf("%w: %s", ErrNotClosed, t)
	}

	for _, stmt := range syncStatements(t) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("%w: syncing %s: %s", classify(err), t, err)
		}
	}

	return nil
}

// SyncMigration wraps SyncType in a Migration.
// The key changes whenever t's member names do, so new members are synced by the next MigrateUp.
func SyncMigration(t *enum.Type) Migration {
	h := fnv.New32a()
	for _, n := range t.Names() {
		h.Write([]byte(n))
		h.Write([]byte{0})
	}

	return Migration{
		Key:      fmt.Sprintf("sync_enum_%s_%08x", TypeName(t), h.Sum32()),
		Executor: func(db *gorm.DB) error { return SyncType(db, t) },
	}
}

// Labels lists the labels of the ENUM type backing t in their sort order.
func Labels(db *gorm.DB, t *enum.Type) ([]string, error) {
	var labels []string
	err := db.
		Raw(`SELECT e.enumlabel FROM pg_enum e JOIN pg_type t ON e.enumtypid = t.oid WHERE t.typname = ? ORDER BY e.enumsortorder`, TypeName(t)).
		Scan(&labels).
		Error
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpected, err)
	}

	return labels, nil
}
