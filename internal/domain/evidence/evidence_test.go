package evidence

import (
	"bufio"
	"context"
	"net"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aoserver/aoserver/internal/session"
)

// newTestDB seeds a catalog without constructing a Store, since Store
// construction reaches for real AWS credentials via LoadDefaultConfig;
// these tests only exercise the read path, which never touches S3.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Evidence{}))
	require.NoError(t, db.Create(&Evidence{Name: "Bloody Knife", Description: "found at the scene", ImageKey: "knife.png"}).Error)
	return db
}

func TestEvidenceListSendsPage(t *testing.T) {
	st := &Store{db: newTestDB(t)}

	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	s := session.New(serverConn, session.Config{}, nil, nil, nil)

	done := make(chan error, 1)
	go func() { done <- st.EvidenceList(context.Background(), s, 0) }()

	client := bufio.NewReader(clientConn)
	reply, err := client.ReadString('%')
	require.NoError(t, err)
	assert.Equal(t, "LE#0#Bloody Knife#found at the scene#knife.png#%", reply)
	require.NoError(t, <-done)
}

func TestCountReflectsCatalog(t *testing.T) {
	st := &Store{db: newTestDB(t)}
	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
