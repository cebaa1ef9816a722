package callback

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCollector_FailureThenSuccess(t *testing.T) {
	c := NewCollector()
	c.OnPlayStart("web")

	c.OnFailed("h1", "install", Result{"stderr": "E1 ", "msg": "boom"}, false)
	assert.Equal(t, "E1 boom", c.ErrorMsg())
	assert.Nil(t, c.LastResult())

	ok := Result{"changed": true}
	c.OnOK("h1", "install", ok)
	assert.Equal(t, "", c.ErrorMsg(), "success without stderr clears the error message")
	assert.Equal(t, ok, c.LastResult())

	c.OnOK("h2", "install", Result{"stderr": "warning: deprecated"})
	assert.Equal(t, "warning: deprecated", c.ErrorMsg())

	records := c.Records()
	require.Len(t, records, 3)
	assert.Equal(t, Record{
		Seq: 1, Host: "h1", Task: "install", Play: "web", Status: StatusFailed,
		Message: "boom", Stderr: "E1 ", Result: Result{"stderr": "E1 ", "msg": "boom"},
	}, records[0])
	assert.Equal(t, 2, records[1].Seq)
	assert.Equal(t, StatusOK, records[2].Status)
}

func TestCollector_IgnoredFailure(t *testing.T) {
	c := NewCollector()
	c.OnFailed("h1", "check", Result{"stderr": "x", "msg": "y"}, false)
	c.OnFailed("h1", "check", Result{"stderr": "other", "msg": "ignored"}, true)

	assert.Equal(t, "xy", c.ErrorMsg())
	records := c.Records()
	require.Len(t, records, 2)
	assert.Equal(t, StatusIgnored, records[1].Status)
	assert.False(t, records[1].Status.IsFailed())
}

func TestCollector_Unreachable(t *testing.T) {
	c := NewCollector()
	c.OnUnreachable("10.0.0.9", "", Result{"unreachable": true, "msg": "ssh timeout"})
	assert.Equal(t, "10.0.0.9:ssh timeout", c.ErrorMsg())

	c.OnUnreachable("10.0.0.8", "", Result{"msg": "flag missing"})
	assert.Equal(t, "10.0.0.9:ssh timeout", c.ErrorMsg(), "falsy unreachable flag leaves the message alone")

	c.OnUnreachable("10.0.0.7", "", Result{"unreachable": true})
	assert.Equal(t, "10.0.0.7:", c.ErrorMsg())

	c.OnUnreachable("10.0.0.6", "", Result{"unreachable": "false", "msg": "string flag"})
	assert.Equal(t, "10.0.0.7:", c.ErrorMsg(), "the string false is not truthy")

	records := c.Records()
	require.Len(t, records, 4)
	for _, r := range records {
		assert.Equal(t, StatusUnreachable, r.Status)
	}
}

func TestTruthy(t *testing.T) {
	testCases := []struct {
		value interface{}
		want  bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{"", false},
		{"false", false},
		{"False", false},
		{"yes", true},
		{float64(0), false},
		{float64(2), true},
		{0, false},
		{1, true},
		{[]interface{}{}, true},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Truthy(tc.value), "Truthy(%#v)", tc.value)
	}
}

func TestCollector_ItemFailedAndSkipped(t *testing.T) {
	c := NewCollector()
	c.OnItemFailed("h1", "loop", Result{"msg": "item 2 failed", "item": "b"})
	assert.Equal(t, "item 2 failed", c.ErrorMsg())

	c.OnSkipped("h1", "conditional", Result{"skipped": true})
	assert.Equal(t, "item 2 failed", c.ErrorMsg())
	assert.Nil(t, c.LastResult())

	records := c.Records()
	require.Len(t, records, 2)
	assert.Equal(t, StatusItemFailed, records[0].Status)
	assert.Equal(t, StatusSkipped, records[1].Status)
}

func TestCollector_NonStringFields(t *testing.T) {
	c := NewCollector()
	c.OnFailed("h1", "t", Result{"msg": []interface{}{"a", "b"}, "stderr": nil}, false)
	assert.Equal(t, "[a b]", c.ErrorMsg())
}

func TestCollector_RecordsIsACopy(t *testing.T) {
	c := NewCollector()
	c.OnOK("h1", "t", nil)
	records := c.Records()
	records[0].Host = "changed"
	assert.Equal(t, "h1", c.Records()[0].Host)
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.OnOK("h", "t", Result{})
		}()
		go func() {
			defer wg.Done()
			_ = c.Records()
			_ = c.ErrorMsg()
		}()
	}
	wg.Wait()

	records := c.Records()
	require.Len(t, records, 50)
	for i, r := range records {
		assert.Equal(t, i+1, r.Seq)
	}
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "item_failed", StatusItemFailed.String())
	assert.Equal(t, "unknown(42)", Status(42).String())
	assert.True(t, StatusUnreachable.IsFailed())
	assert.False(t, StatusSkipped.IsFailed())

	out, err := yaml.Marshal(Record{Seq: 1, Host: "h1", Status: StatusSkipped})
	require.NoError(t, err)
	assert.Contains(t, string(out), "status: skipped")

	var s Status
	require.NoError(t, s.UnmarshalText([]byte("unreachable")))
	assert.Equal(t, StatusUnreachable, s)
	assert.Error(t, s.UnmarshalText([]byte("bogus")))
	_, err = Status(42).MarshalText()
	assert.Error(t, err)
}
