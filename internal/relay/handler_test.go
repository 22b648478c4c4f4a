package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"plantspace/internal/auth"
	"plantspace/internal/mocks"
	"plantspace/internal/models"
	"plantspace/internal/repositories"
)

type staticResolver struct {
	user models.User
}

func (s staticResolver) GetUser(ctx context.Context, userID int) (models.User, error) {
	if userID == s.user.ID {
		return s.user, nil
	}
	return models.User{}, repositories.ErrUserNotFound
}

// ctxCheckingRepo records the context state seen by CreateMessage, so tests
// can assert the persist path outlives the upgrade request.
type ctxCheckingRepo struct {
	mocks.MessageRepositoryMock
	ctxErr chan error
}

func (r *ctxCheckingRepo) CreateMessage(ctx context.Context, senderID, receiverID int, content, imageURL string) (models.MessageWithSender, error) {
	r.ctxErr <- ctx.Err()
	return models.MessageWithSender{
		Message:        models.Message{ID: 1, SenderID: senderID, ReceiverID: receiverID, Content: content},
		SenderUsername: "alice",
	}, nil
}

func setupRelayServer(t *testing.T, messages repositories.MessageRepository) (*httptest.Server, *Relay, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tm := auth.NewTokenManager("test-secret", time.Hour)
	verifier := auth.NewVerifier(tm, staticResolver{user: models.User{ID: 1, Username: "alice"}})

	publisher := new(mocks.PublisherMock)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	r := New(NewHub(), messages, publisher, zerolog.Nop())
	handler := NewHandler(r, verifier, zerolog.Nop())

	router := gin.New()
	router.GET("/ws", handler.Handle)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	token, err := tm.Generate(1)
	require.NoError(t, err)
	return srv, r, token
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
}

func TestHandleRejectsMissingToken(t *testing.T) {
	srv, r, _ := setupRelayServer(t, new(mocks.MessageRepositoryMock))

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, 0, r.Hub().GroupSize(PersonalGroup(1)))
}

func TestHandleRejectsInvalidToken(t *testing.T) {
	srv, r, _ := setupRelayServer(t, new(mocks.MessageRepositoryMock))

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token=garbage"), nil)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, 0, r.Hub().GroupSize(PersonalGroup(1)))
}

func TestHandleConnectJoinsPersonalGroup(t *testing.T) {
	srv, r, token := setupRelayServer(t, new(mocks.MessageRepositoryMock))

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token="+token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return r.Hub().GroupSize(PersonalGroup(1)) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestHandleSendMessagePersistsAfterUpgradeReturns(t *testing.T) {
	repo := &ctxCheckingRepo{ctxErr: make(chan error, 1)}
	srv, _, token := setupRelayServer(t, repo)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token="+token), nil)
	require.NoError(t, err)
	defer conn.Close()

	// let the upgrade handler return before any event is sent
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"event":"join","data":{"user_id":2}}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"event":"send-message","data":{"receiver_id":2,"content":"hi"}}`)))

	select {
	case ctxErr := <-repo.ctxErr:
		require.NoError(t, ctxErr, "persist context must still be alive after the upgrade handler returns")
	case <-time.After(2 * time.Second):
		t.Fatal("CreateMessage was never called")
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	var env struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frame, &env))
	require.Equal(t, EventNewMessage, env.Event)
}
