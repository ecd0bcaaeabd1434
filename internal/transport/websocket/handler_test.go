package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/broadcast"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/repository"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	EventType string            `json:"event-type"`
	Data      []*domain.Product `json:"data"`
}

func setup(t *testing.T) (*httptest.Server, service.ProductService, *broadcast.Broadcaster) {
	t.Helper()

	repo, err := repository.NewFileProductRepository(t.TempDir())
	require.NoError(t, err)

	b := broadcast.New(hclog.NewNullLogger(), 16)
	ps := service.NewProductService(repo, b, nil, hclog.NewNullLogger())
	h := NewHandler(hclog.NewNullLogger(), b, ps, []string{"http://allowed.test"})

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(srv.Close)
	return srv, ps, b
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var f frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func createProduct(t *testing.T, ps service.ProductService, code string) *domain.Product {
	t.Helper()
	in := &domain.ProductInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Mouse","description":"d","code":"`+code+`","price":100,"stock":5,"category":"peripherals"}`), in))
	p, err := ps.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	return p
}

func TestInitialSnapshotOnConnect(t *testing.T) {
	srv, ps, _ := setup(t)
	createProduct(t, ps, "M-1")

	f := read(t, dial(t, srv))
	assert.Equal(t, "products:update", f.EventType)
	require.Len(t, f.Data, 1)
	assert.Equal(t, "M-1", f.Data[0].Code)
}

func TestEmptyCatalogSnapshot(t *testing.T) {
	srv, _, _ := setup(t)

	conn := dial(t, srv)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event-type":"products:update","data":[]}`, string(data))
}

func TestMutationsReachEverySession(t *testing.T) {
	srv, ps, b := setup(t)

	first := dial(t, srv)
	second := dial(t, srv)
	read(t, first)
	read(t, second)
	require.Eventually(t, func() bool { return b.Sessions() == 2 }, time.Second, 5*time.Millisecond)

	p := createProduct(t, ps, "M-1")
	for _, conn := range []*websocket.Conn{first, second} {
		f := read(t, conn)
		require.Len(t, f.Data, 1)
		assert.Equal(t, p.ID, f.Data[0].ID)
	}

	require.NoError(t, ps.DeleteProduct(context.Background(), p.ID))
	for _, conn := range []*websocket.Conn{first, second} {
		assert.Empty(t, read(t, conn).Data)
	}
}

func TestDisconnectUnregistersSession(t *testing.T) {
	srv, _, b := setup(t)

	conn := dial(t, srv)
	read(t, conn)
	require.Equal(t, 1, b.Sessions())

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	assert.Eventually(t, func() bool { return b.Sessions() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestRejectsForeignOrigin(t *testing.T) {
	srv, _, _ := setup(t)

	header := http.Header{"Origin": []string{"http://evil.test"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
