package util

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"sync"
	"testing"
)

func resetHome(t *testing.T) {
	t.Helper()
	homeDirOnce = sync.Once{}
	homeDir = ""
	homeDirErr = nil
}

func TestHome(t *testing.T) {
	resetHome(t)

	home, err := Home()
	if err != nil {
		if runtime.GOOS != "windows" && os.Getenv("HOME") == "" && os.Getenv("USER") == "" {
			t.Logf("Home() failed without HOME and USER set: %v", err)
			return
		}
		t.Fatalf("Home() error = %v", err)
	}
	if home == "" {
		t.Errorf("Home() returned an empty string")
	}

	homeAgain, errAgain := Home()
	if errAgain != err {
		t.Errorf("Home() on second call error = %v, want error %v", errAgain, err)
	}
	if homeAgain != home {
		t.Errorf("Home() on second call got %q, want %q", homeAgain, home)
	}
}

func TestExpandHome(t *testing.T) {
	resetHome(t)
	home, err := Home()
	if err != nil {
		t.Skipf("no home directory available: %v", err)
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Tilde only", "~", home},
		{"Tilde prefix", "~/.ssh/id_rsa", filepath.Join(home, ".ssh", "id_rsa")},
		{"Absolute path", "/etc/ansible/hosts", "/etc/ansible/hosts"},
		{"Relative path", "keys/id_rsa", "keys/id_rsa"},
		{"Tilde user form untouched", "~bob/id_rsa", "~bob/id_rsa"},
		{"Empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandHome(tt.in)
			if err != nil {
				t.Fatalf("ExpandHome(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGetenvOrDefault(t *testing.T) {
	const testEnvKey = "XMANSIBLE_TEST_ENV_VAR_UTIL"
	const defaultValue = "this_is_default_val"
	const setValue = "this_is_a_set_value"

	t.Setenv(testEnvKey, "")
	if got := GetenvOrDefault(testEnvKey, defaultValue); got != defaultValue {
		t.Errorf("GetenvOrDefault() got %q, want %q when var is empty string", got, defaultValue)
	}

	t.Setenv(testEnvKey, setValue)
	if got := GetenvOrDefault(testEnvKey, defaultValue); got != setValue {
		t.Errorf("GetenvOrDefault() got %q, want %q when var is set", got, setValue)
	}
}

func TestParseKeyValues(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    map[string]string
		wantErr bool
	}{
		{"Empty", nil, map[string]string{}, false},
		{"Simple", []string{"a=1", "b=2"}, map[string]string{"a": "1", "b": "2"}, false},
		{"Override", []string{"a=1", "a=2"}, map[string]string{"a": "2"}, false},
		{"Value with equals", []string{"url=http://x?y=z"}, map[string]string{"url": "http://x?y=z"}, false},
		{"Empty value", []string{"flag="}, map[string]string{"flag": ""}, false},
		{"Key trimmed", []string{" k =v"}, map[string]string{"k": "v"}, false},
		{"Missing equals", []string{"novalue"}, nil, true},
		{"Empty key", []string{"=v"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeyValues(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKeyValues() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseKeyValues() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortedKeys(t *testing.T) {
	got := SortedKeys(map[string]int{"b": 2, "c": 3, "a": 1})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedKeys() = %v, want %v", got, want)
	}
	if got := SortedKeys(map[string]any{}); len(got) != 0 {
		t.Errorf("SortedKeys(empty) = %v, want empty", got)
	}
}

func TestUniqueStrings(t *testing.T) {
	tests := []struct {
		name  string
		slice []string
		want  []string
	}{
		{"Empty slice", []string{}, []string{}},
		{"All unique", []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"Duplicates", []string{"a", "b", "a", "c", "b", "b"}, []string{"a", "b", "c"}},
		{"All same", []string{"z", "z", "z"}, []string{"z"}},
		{"Nil slice", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UniqueStrings(tt.slice)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UniqueStrings() = %v, want %v", got, tt.want)
			}
		})
	}
}
