package engine

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/mensylisir/xmansible/callback"
)

// ErrNoOutput is returned when the engine output holds no JSON document.
var ErrNoOutput = errors.New("no JSON document in engine output")

// jsonOutput mirrors the document written by the engine's json stdout
// callback.
type jsonOutput struct {
	Plays []jsonPlay           `json:"plays"`
	Stats map[string]HostStats `json:"stats"`
}

type jsonPlay struct {
	Play  jsonName   `json:"play"`
	Tasks []jsonTask `json:"tasks"`
}

type jsonTask struct {
	Task  jsonName    `json:"task"`
	Hosts hostResults `json:"hosts"`
}

type jsonName struct {
	Name string `json:"name"`
}

// hostResults keeps the host order of the JSON object, which a plain map
// would lose.
type hostResults struct {
	names   []string
	results map[string]callback.Result
}

func (h *hostResults) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Errorf("expected hosts object, got %v", tok)
	}
	h.results = make(map[string]callback.Result)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		host, ok := keyTok.(string)
		if !ok {
			return errors.Errorf("expected host name, got %v", keyTok)
		}
		var result callback.Result
		if err := dec.Decode(&result); err != nil {
			return errors.Wrapf(err, "failed to decode result of host %s", host)
		}
		if _, seen := h.results[host]; !seen {
			h.names = append(h.names, host)
		}
		h.results[host] = result
	}
	_, err = dec.Token()
	return err
}

// decodeOutput finds the JSON document in stdout. Lines printed before it,
// such as the config file notice at higher verbosity, are skipped.
func decodeOutput(stdout string) (*jsonOutput, error) {
	start, offset := -1, 0
	for _, line := range strings.SplitAfter(stdout, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "{") {
			start = offset
			break
		}
		offset += len(line)
	}
	if start < 0 {
		return nil, ErrNoOutput
	}

	var out jsonOutput
	if err := json.NewDecoder(strings.NewReader(stdout[start:])).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "failed to decode engine output")
	}
	return &out, nil
}

// dispatch replays the decoded document into cb, play by play, task by
// task, host by host.
func dispatch(out *jsonOutput, cb callback.Callback, observe func(host, task string, status callback.Status)) {
	for _, play := range out.Plays {
		cb.OnPlayStart(play.Play.Name)
		for _, task := range play.Tasks {
			for _, host := range task.Hosts.names {
				result := task.Hosts.results[host]
				ignore := ignoresErrors(result) || onlyIgnoredFailures(out.Stats, host)
				for _, status := range dispatchResult(cb, host, task.Task.Name, result, ignore) {
					if observe != nil {
						observe(host, task.Task.Name, status)
					}
				}
			}
		}
	}
}

// dispatchResult reports one host result. ignore tells whether a failure
// was ignored by the engine.
func dispatchResult(cb callback.Callback, host, task string, result callback.Result, ignore bool) []callback.Status {
	delete(result, ignoredKey)
	if callback.Truthy(result["unreachable"]) {
		cb.OnUnreachable(host, task, result)
		return []callback.Status{callback.StatusUnreachable}
	}

	var statuses []callback.Status
	if items, ok := result["results"].([]interface{}); ok {
		for _, item := range items {
			itemResult, ok := item.(map[string]interface{})
			if !ok || !callback.Truthy(itemResult["failed"]) {
				continue
			}
			cb.OnItemFailed(host, task, callback.Result(itemResult))
			statuses = append(statuses, callback.StatusItemFailed)
		}
	}

	switch {
	case callback.Truthy(result["failed"]):
		cb.OnFailed(host, task, result, ignore)
		if ignore {
			return append(statuses, callback.StatusIgnored)
		}
		return append(statuses, callback.StatusFailed)
	case callback.Truthy(result["skipped"]):
		cb.OnSkipped(host, task, result)
		return append(statuses, callback.StatusSkipped)
	default:
		cb.OnOK(host, task, result)
		return append(statuses, callback.StatusOK)
	}
}

// ignoresErrors reports whether result carries an ignore marker: the
// callback plugin's key, or the keys the engine sets on loop items.
func ignoresErrors(result callback.Result) bool {
	return callback.Truthy(result[ignoredKey]) ||
		callback.Truthy(result["_ansible_ignore_errors"]) ||
		callback.Truthy(result["ignore_errors"])
}

// onlyIgnoredFailures reports whether the recap says every failure of host
// was ignored. It covers output produced without the callback plugin.
func onlyIgnoredFailures(stats map[string]HostStats, host string) bool {
	s, ok := stats[host]
	return ok && s.Failures == 0 && s.Ignored > 0
}
