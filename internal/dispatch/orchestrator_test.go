package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotacao-hub/cotacao/internal/digisac"
	"github.com/cotacao-hub/cotacao/internal/masterdata/suppliers"
	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

type fakeFinder struct {
	rows map[int64]suppliers.Supplier
}

func (f *fakeFinder) Get(_ context.Context, id int64) (suppliers.Supplier, error) {
	s, ok := f.rows[id]
	if !ok {
		return suppliers.Supplier{}, httpx.ErrNotFound
	}
	return s, nil
}

func (f *fakeFinder) FindByIDs(_ context.Context, ids []int64) ([]suppliers.Supplier, error) {
	out := []suppliers.Supplier{}
	for _, id := range ids {
		if s, ok := f.rows[id]; ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type sentMessage struct {
	recipient string
	mode      digisac.RecipientMode
}

type fakeSender struct {
	mu    sync.Mutex
	sent  []sentMessage
	fail  map[string]error
	delay func(recipient string) time.Duration
}

func (s *fakeSender) Send(_ context.Context, recipient, _ string, opts digisac.SendOptions) (json.RawMessage, error) {
	if s.delay != nil {
		time.Sleep(s.delay(recipient))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{recipient: recipient, mode: opts.Mode})
	if err := s.fail[recipient]; err != nil {
		return nil, err
	}
	return json.RawMessage(`{"sent":true}`), nil
}

type countingRecorder struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (c *countingRecorder) DispatchOutcome(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcomes == nil {
		c.outcomes = map[string]int{}
	}
	c.outcomes[outcome]++
}

func strPtr(s string) *string { return &s }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendToManyDedupesIDs(t *testing.T) {
	finder := &fakeFinder{rows: map[int64]suppliers.Supplier{
		3: {ID: 3, Name: "Três", Contact: "5514990000003"},
		5: {ID: 5, Name: "Cinco", Contact: "5514990000005"},
	}}
	sender := &fakeSender{}
	o := NewOrchestrator(discardLogger(), finder, sender, nil, 1)

	report, err := o.SendToMany(context.Background(), []int64{3, 3, 5}, "Cotação de cimento")
	require.NoError(t, err)
	assert.Len(t, sender.sent, 2)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Enviados)
	assert.True(t, report.OK)
	assert.Empty(t, report.NaoEncontrados)
}

func TestSendToManyIsolatesFailures(t *testing.T) {
	finder := &fakeFinder{rows: map[int64]suppliers.Supplier{
		1: {ID: 1, Name: "Com contato", Contact: "+55 (14) 99524-1168"},
		2: {ID: 2, Name: "Sem contato"},
	}}
	sender := &fakeSender{}
	recorder := &countingRecorder{}
	o := NewOrchestrator(discardLogger(), finder, sender, recorder, 1)

	report, err := o.SendToMany(context.Background(), []int64{2, 1, 9}, "oi")
	require.NoError(t, err)
	assert.False(t, report.OK)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Enviados)
	assert.Equal(t, 1, report.Falharam)
	assert.Equal(t, []int64{9}, report.NaoEncontrados)

	require.Len(t, report.Resultados, 2)
	assert.True(t, report.Resultados[0].OK)
	assert.False(t, report.Resultados[1].OK)
	assert.Equal(t, ErrNoContact.Error(), report.Resultados[1].Erro)
	assert.Equal(t, map[string]int{"sent": 1, "failed": 1}, recorder.outcomes)
}

func TestSendToManyPrefersContactID(t *testing.T) {
	finder := &fakeFinder{rows: map[int64]suppliers.Supplier{
		1: {ID: 1, Name: "A", Contact: "5514", DigisacContactID: strPtr("contact-1")},
	}}
	sender := &fakeSender{}
	o := NewOrchestrator(discardLogger(), finder, sender, nil, 1)

	_, err := o.SendToMany(context.Background(), []int64{1}, "oi")
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, sentMessage{recipient: "contact-1", mode: digisac.ModeContact}, sender.sent[0])
}

func TestSendToManyRemoteFailureKeepsGoing(t *testing.T) {
	finder := &fakeFinder{rows: map[int64]suppliers.Supplier{
		1: {ID: 1, Name: "A", Contact: "111"},
		2: {ID: 2, Name: "B", Contact: "222"},
	}}
	sender := &fakeSender{fail: map[string]error{"111": &httpx.RemoteError{Status: 502, Body: "bad gateway"}}}
	o := NewOrchestrator(discardLogger(), finder, sender, nil, 1)

	report, err := o.SendToMany(context.Background(), []int64{1, 2}, "oi")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Falharam)
	assert.Contains(t, report.Resultados[0].Erro, "502")
	assert.True(t, report.Resultados[1].OK)
}

func TestSendToManyConcurrentPreservesOrder(t *testing.T) {
	rows := map[int64]suppliers.Supplier{}
	ids := []int64{}
	for i := int64(1); i <= 8; i++ {
		rows[i] = suppliers.Supplier{ID: i, Name: "S", Contact: string(rune('0' + i))}
		ids = append(ids, 9-i)
	}
	rows[4] = suppliers.Supplier{ID: 4, Name: "sem contato"}
	sender := &fakeSender{delay: func(recipient string) time.Duration {
		return time.Duration(10-int(recipient[0]-'0')) * time.Millisecond
	}}
	o := NewOrchestrator(discardLogger(), &fakeFinder{rows: rows}, sender, nil, 4)

	report, err := o.SendToMany(context.Background(), ids, "oi")
	require.NoError(t, err)
	require.Len(t, report.Resultados, 8)
	for i, r := range report.Resultados {
		assert.Equal(t, int64(i+1), r.FornecedorID)
		assert.Equal(t, r.FornecedorID != 4, r.OK)
	}
	assert.Equal(t, 7, report.Enviados)
	assert.Equal(t, 1, report.Falharam)
}

func TestSendToManyValidation(t *testing.T) {
	o := NewOrchestrator(discardLogger(), &fakeFinder{}, &fakeSender{}, nil, 1)
	_, err := o.SendToMany(context.Background(), nil, "oi")
	assert.ErrorIs(t, err, httpx.ErrValidation)
	_, err = o.SendToMany(context.Background(), []int64{1}, "  ")
	assert.ErrorIs(t, err, httpx.ErrValidation)
	_, err = o.SendToMany(context.Background(), []int64{0}, "oi")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestSendToSupplier(t *testing.T) {
	finder := &fakeFinder{rows: map[int64]suppliers.Supplier{
		1: {ID: 1, Name: "A", Contact: "5514"},
		2: {ID: 2, Name: "B"},
	}}
	o := NewOrchestrator(discardLogger(), finder, &fakeSender{}, nil, 1)

	resp, err := o.SendToSupplier(context.Background(), 1, "oi")
	require.NoError(t, err)
	assert.JSONEq(t, `{"sent":true}`, string(resp))

	_, err = o.SendToSupplier(context.Background(), 7, "oi")
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
	_, err = o.SendToSupplier(context.Background(), 2, "oi")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestSendToManyFailsFastWithoutConfiguration(t *testing.T) {
	finder := &fakeFinder{rows: map[int64]suppliers.Supplier{
		1: {ID: 1, Name: "Um", Contact: "5514990000001"},
		2: {ID: 2, Name: "Dois", Contact: "5514990000002"},
	}}
	o := NewOrchestrator(discardLogger(), finder, digisac.NewClient(digisac.Config{}, nil), nil, 1)

	report, err := o.SendToMany(context.Background(), []int64{1, 2}, "Cotação")
	require.ErrorIs(t, err, httpx.ErrConfiguration)
	assert.Contains(t, err.Error(), "DIGISAC_BASE_URL")
	assert.Contains(t, err.Error(), "DIGISAC_TOKEN")
	assert.Empty(t, report.Resultados)
}
