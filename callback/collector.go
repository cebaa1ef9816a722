package callback

import (
	"fmt"
	"strings"
	"sync"
)

// Result is the raw result map the engine reports for a task on a host.
type Result map[string]interface{}

// Record is one engine event. Records are numbered from 1 in arrival order.
type Record struct {
	Seq     int    `json:"seq" yaml:"seq"`
	Host    string `json:"host" yaml:"host"`
	Task    string `json:"task,omitempty" yaml:"task,omitempty"`
	Play    string `json:"play,omitempty" yaml:"play,omitempty"`
	Status  Status `json:"status" yaml:"status"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Stderr  string `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	Result  Result `json:"result,omitempty" yaml:"result,omitempty"`
}

// Callback receives engine events in the order the engine reports them.
type Callback interface {
	OnPlayStart(play string)
	OnOK(host, task string, result Result)
	OnFailed(host, task string, result Result, ignoreErrors bool)
	OnUnreachable(host, task string, result Result)
	OnItemFailed(host, task string, result Result)
	OnSkipped(host, task string, result Result)
}

// Collector is a Callback that keeps every event and a pair of legacy
// views: the last successful result and the last error message. The views
// follow overwrite semantics, so a later success clears an earlier error.
// It is safe for concurrent use.
type Collector struct {
	mu         sync.RWMutex
	play       string
	records    []Record
	lastResult Result
	errorMsg   string
}

var _ Callback = (*Collector)(nil)

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) OnPlayStart(play string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.play = play
}

func (c *Collector) OnOK(host, task string, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appendLocked(host, task, StatusOK, result)
	c.lastResult = result
	c.errorMsg = stringField(result, "stderr")
}

func (c *Collector) OnFailed(host, task string, result Result, ignoreErrors bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ignoreErrors {
		c.appendLocked(host, task, StatusIgnored, result)
		return
	}
	c.appendLocked(host, task, StatusFailed, result)
	c.errorMsg = stringField(result, "stderr") + stringField(result, "msg")
}

func (c *Collector) OnUnreachable(host, task string, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appendLocked(host, task, StatusUnreachable, result)
	if Truthy(result["unreachable"]) {
		c.errorMsg = host + ":" + stringField(result, "msg")
	}
}

func (c *Collector) OnItemFailed(host, task string, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appendLocked(host, task, StatusItemFailed, result)
	c.errorMsg = stringField(result, "stderr") + stringField(result, "msg")
}

func (c *Collector) OnSkipped(host, task string, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appendLocked(host, task, StatusSkipped, result)
}

func (c *Collector) appendLocked(host, task string, status Status, result Result) {
	c.records = append(c.records, Record{
		Seq:     len(c.records) + 1,
		Host:    host,
		Task:    task,
		Play:    c.play,
		Status:  status,
		Message: stringField(result, "msg"),
		Stderr:  stringField(result, "stderr"),
		Result:  result,
	})
}

// Records returns a copy of all events so far.
func (c *Collector) Records() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// LastResult returns the result of the most recent successful task, or nil.
func (c *Collector) LastResult() Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastResult
}

// ErrorMsg returns the most recently recorded error message.
func (c *Collector) ErrorMsg() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errorMsg
}

func stringField(result Result, key string) string {
	v, ok := result[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Truthy interprets a result value the way the engine's own results use
// booleans. Strings other than "" and "false" (any case) count as true.
func Truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && !strings.EqualFold(t, "false")
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}
