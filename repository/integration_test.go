//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"armario-virtual/db"
	"armario-virtual/logger"
	"armario-virtual/models"
	"armario-virtual/repository"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "armario_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/armario_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestPostgresCollection_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, err := db.OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(conn))

	c := repository.NewPostgresCollection(conn, 20*time.Millisecond, logger.Discard())

	ch, err := c.Subscribe(ctx, "family")
	require.NoError(t, err)
	require.Empty(t, (<-ch).Items)

	id, err := c.Append(ctx, models.ClothingItem{RoomID: "family", Name: "毛衣", Category: models.CategoryTop, Image: []byte{1, 2}})
	require.NoError(t, err)
	_, err = c.Append(ctx, models.ClothingItem{RoomID: "other", Name: "裙子", Category: models.CategoryBottom, Image: []byte{3}})
	require.NoError(t, err)

	snap := <-ch
	require.NoError(t, snap.Err)
	require.Len(t, snap.Items, 1)
	require.Equal(t, id, snap.Items[0].ID)

	require.NoError(t, c.Delete(ctx, id))
	snap = <-ch
	require.NoError(t, snap.Err)
	require.Empty(t, snap.Items)
}
