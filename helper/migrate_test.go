package helper_test

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readUpMigrations(t *testing.T) map[string]string {
	t.Helper()

	driver, err := (&file.File{}).Open("file://../migrations/postgres")
	require.NoError(t, err)

	t.Cleanup(func() { _ = driver.Close() })

	migrations := map[string]string{}

	version, err := driver.First()
	require.NoError(t, err)

	for {
		reader, identifier, err := driver.ReadUp(version)
		require.NoError(t, err)

		body, err := io.ReadAll(reader)
		require.NoError(t, err)
		require.NoError(t, reader.Close())

		migrations[identifier] = string(body)

		version, err = driver.Next(version)
		if errors.Is(err, os.ErrNotExist) {
			break
		}

		require.NoError(t, err)
	}

	return migrations
}

func TestMigrationsReferentialActions(t *testing.T) {
	migrations := readUpMigrations(t)

	tests := []struct {
		name       string
		identifier string
		pattern    string
	}{
		{
			name:       "deleting a booking removes its details",
			identifier: "create_booking_details_table",
			pattern:    `booking_id\s+UUID\s+NOT NULL\s+REFERENCES\s+bookings\s*\(id\)\s+ON DELETE CASCADE`,
		},
		{
			name:       "rooms in use cannot be deleted",
			identifier: "create_booking_details_table",
			pattern:    `room_id\s+UUID\s+NOT NULL\s+REFERENCES\s+rooms\s*\(id\)\s+ON DELETE RESTRICT`,
		},
		{
			name:       "deleting a user keeps their bookings",
			identifier: "create_bookings_table",
			pattern:    `user_id\s+UUID\s+NULL\s+REFERENCES\s+users\s*\(id\)\s+ON DELETE SET NULL`,
		},
		{
			name:       "detail ranges end after they start",
			identifier: "create_booking_details_table",
			pattern:    `CHECK\s*\(end_time > start_time\)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ok := migrations[tt.identifier]
			require.True(t, ok, "migration %s not found", tt.identifier)

			assert.Regexp(t, tt.pattern, body)
		})
	}
}
