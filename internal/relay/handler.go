package relay

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"plantspace/internal/auth"
	"plantspace/internal/observability"
)

// Handler upgrades relay connections. The credential is verified from the
// handshake before the upgrade, so a rejected connection never enters the
// broadcast graph.
type Handler struct {
	relay    *Relay
	verifier *auth.Verifier
	log      zerolog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(relay *Relay, verifier *auth.Verifier, log zerolog.Logger) *Handler {
	return &Handler{relay: relay, verifier: verifier, log: log}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle authenticates the handshake, upgrades the connection, enrolls it
// in its personal group, and runs the read loop until disconnect.
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("plantspace/relay").Start(c.Request.Context(), "relay.handshake")
	defer span.End()

	token := c.Query("token")
	if token == "" {
		if t, ok := bearerFromHeader(c.GetHeader("Authorization")); ok {
			token = t
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "unauthorized", "message": "missing token"})
		return
	}

	user, err := h.verifier.Verify(ctx, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "unauthorized", "message": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(uuid.NewString(), user.ID, conn)
	h.relay.Hub().Join(client, PersonalGroup(user.ID))
	observability.IncRelayActive()
	h.log.Debug().Str("conn_id", client.ID).Int("user_id", user.ID).Msg("relay connected")

	// The request context is canceled the moment this handler returns, so
	// events run on a connection-scoped context that lives until disconnect.
	connCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	go func() {
		defer func() {
			cancel()
			h.relay.Hub().Remove(client)
			observability.DecRelayActive()
			client.Close()
			h.log.Debug().Str("conn_id", client.ID).Int("user_id", user.ID).Msg("relay disconnected")
		}()
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			h.relay.HandleEvent(connCtx, client, raw)
		}
	}()
}

func bearerFromHeader(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):], true
	}
	return "", false
}
