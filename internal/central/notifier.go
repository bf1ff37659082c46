package central

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pongWait       = 60 * time.Second
	maxMessageSize = 512 * 1024
	retryDelay     = 5 * time.Second
	subscriberBuf  = 16
)

// Notification signals that entities of a given type changed on the server.
type Notification struct {
	Entity string
	Action string
	ID     string
}

type notificationFrame struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Notifier fans out server change notifications received over a websocket.
type Notifier struct {
	url    string
	header http.Header
	dialer *websocket.Dialer
	log    *zap.Logger
	retry  time.Duration
	subs   map[string]map[int]chan Notification
	nextID int
	mx     sync.RWMutex
}

// NewNotifier returns a notifier listening on the given websocket url.
func NewNotifier(url, token string, log *zap.Logger) *Notifier {
	h := make(http.Header)
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}

	return &Notifier{
		url:    url,
		header: h,
		dialer: websocket.DefaultDialer,
		log:    log.With(zap.String("socket", url)),
		retry:  retryDelay,
		subs:   make(map[string]map[int]chan Notification),
	}
}

// SetRetryDelay sets the delay between two connection attempts.
func (n *Notifier) SetRetryDelay(d time.Duration) {
	n.retry = d
}

// Subscribe returns the notifications of the given entity type. The returned
// func cancels the subscription and closes the channel.
func (n *Notifier) Subscribe(entity string) (<-chan Notification, func()) {
	n.mx.Lock()
	defer n.mx.Unlock()

	id := n.nextID
	n.nextID++
	c := make(chan Notification, subscriberBuf)
	if n.subs[entity] == nil {
		n.subs[entity] = make(map[int]chan Notification)
	}
	n.subs[entity][id] = c

	var once sync.Once
	return c, func() {
		once.Do(func() {
			n.mx.Lock()
			defer n.mx.Unlock()
			delete(n.subs[entity], id)
			close(c)
		})
	}
}

// Run connects to the server and dispatches notifications until ctx is done,
// reconnecting after failures.
func (n *Notifier) Run(ctx context.Context) error {
	for {
		err := n.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		n.log.Warn("Notification socket lost", zap.Error(err))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(n.retry):
		}
	}
}

func (n *Notifier) listen(ctx context.Context) error {
	conn, _, err := n.dialer.DialContext(ctx, n.url, n.header)
	if err != nil {
		return err
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = conn.Close()
	}()

	n.log.Debug("Notification socket connected")
	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return err
	}
	conn.SetPingHandler(func(data string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			return err
		}
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return errors.New("closed by server")
			}
			return err
		}
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			return err
		}

		var f notificationFrame
		if err := json.Unmarshal(msg, &f); err != nil || f.Entity == "" {
			n.log.Debug("Dropping malformed notification", zap.ByteString("frame", msg))
			continue
		}
		n.dispatch(Notification{Entity: f.Entity, Action: f.Action, ID: f.Data.ID})
	}
}

// dispatch never blocks. A subscriber with a full buffer misses the event.
func (n *Notifier) dispatch(nt Notification) {
	n.mx.RLock()
	defer n.mx.RUnlock()

	for _, c := range n.subs[nt.Entity] {
		select {
		case c <- nt:
		default:
		}
	}
}
