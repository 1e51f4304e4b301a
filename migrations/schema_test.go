package migrations

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	data, err := FS.ReadFile(name)
	require.NoError(t, err)
	return string(data)
}

// Уникальность slot_id должна считать только живые бронирования: после
// отмены слот переоткрывается, и повторное бронирование не должно упираться
// в отмененную строку.
func TestInitSchema_SlotUniquenessIgnoresCancelled(t *testing.T) {
	ddl := readMigration(t, "000001_init.up.sql")

	partialUnique := regexp.MustCompile(
		`(?s)CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_slot_live\s+ON bookings \(slot_id\)\s+WHERE status != 'cancelled'`,
	)
	assert.True(t, partialUnique.MatchString(ddl),
		"ожидается частичный уникальный индекс по slot_id, исключающий cancelled")

	unconditionalUnique := regexp.MustCompile(`slot_id UUID NOT NULL UNIQUE`)
	assert.False(t, unconditionalUnique.MatchString(ddl),
		"безусловный UNIQUE по slot_id блокирует повторное бронирование после отмены")
}

func TestInitSchema_DownDropsAllTables(t *testing.T) {
	ddl := readMigration(t, "000001_init.down.sql")

	for _, table := range []string{"notification_tasks", "bookings", "slots"} {
		assert.Contains(t, ddl, "DROP TABLE IF EXISTS "+table)
	}
	// Зависимые таблицы удаляются раньше slots
	assert.Less(t,
		strings.Index(ddl, "bookings"),
		strings.Index(ddl, "slots"))
}
