package events

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Publish(context.Background(), New("ABCDEF", "sku", ActionCreated, "ABCDEF12345678"))
	got := r.Events()
	if len(got) != 1 {
		t.Fatalf("events = %d", len(got))
	}
	if got[0].ID == "" || got[0].Entity != "sku" || got[0].CompanyID != "ABCDEF" {
		t.Errorf("unexpected event %+v", got[0])
	}
}

func TestConnectWithoutAddress(t *testing.T) {
	client, err := Connect(context.Background(), "", "")
	if client != nil || err != nil {
		t.Fatalf("Connect(\"\") = %v, %v", client, err)
	}
}

func TestRedisPublisherLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	p := NewRedisPublisher(client, log)
	p.Publish(context.Background(), New("ABCDEF", "incoming_inventory", ActionUpdated, "1"))

	if !strings.Contains(buf.String(), "publish change event") {
		t.Errorf("expected a warning, log was %q", buf.String())
	}
}

func TestChannel(t *testing.T) {
	if Channel("ABCDEF") != "inventory:ABCDEF" {
		t.Error("unexpected channel name")
	}
}
