package postgres

import (
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/xy-planning-network/enum"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var (
	_ sql.Scanner   = (*Column[struct{}, int])(nil)
	_ driver.Valuer = Column[struct{}, int]{}
)

// A Column stores a value of a closed enumeration in a column typed by the ENUM type SyncType creates,
// as the value's member name.
//
// The zero Column holds no value and is stored as NULL.
type Column[K any, P any] struct {
	V *enum.Value[K, P]
}

// Scan implements sql.Scanner, restoring the interned value named by src.
func (c *Column[K, P]) Scan(src any) error {
	var name string
	switch src := src.(type) {
	case nil:
		c.V = nil
		return nil
	case string:
		name = src
	case []byte:
		name = string(src)
	default:
		return fmt.Errorf("%w: cannot scan %T into an enum column", ErrUnexpected, src)
	}

	t, ok := enum.TypeOf[K]()
	if !ok {
		return fmt.Errorf("%w: no enumeration type registered for the column", ErrUnexpected)
	}

	inst, ok := t.Member(name)
	if !ok {
		return fmt.Errorf("%w: %s has no member %s", ErrUnknownLabel, t, name)
	}

	v, ok := inst.(*enum.Value[K, P])
	if !ok {
		return fmt.Errorf("%w: %s does not hold the column's payload type", ErrUnexpected, t)
	}

	c.V = v
	return nil
}

// Value implements driver.Valuer.
func (c Column[K, P]) Value() (driver.Value, error) {
	if c.V == nil {
		return nil, nil
	}

	if err := c.V.Valid(); err != nil {
		return nil, err
	}

	if c.V.Name() == "" {
		return nil, fmt.Errorf("%w: %s value %s has no member name", ErrNotClosed, c.V.Type(), c.V)
	}

	return c.V.Name(), nil
}

// GormDBDataType names the ENUM type SyncType creates as the column's type
// when GORM migrates a model.
func (Column[K, P]) GormDBDataType(*gorm.DB, *schema.Field) string {
	t, ok := enum.TypeOf[K]()
	if !ok {
		return ""
	}

	return TypeName(t)
}
