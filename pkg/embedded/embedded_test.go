package embedded

import (
	"errors"
	"testing"
	"testing/fstest"
)

func reset() {
	dataFS = nil
	initialized = false
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	reset()
	defer reset()

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(fstest.MapFS{})
	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}

	Init(nil)
	if IsInitialized() {
		t.Error("Init(nil) should leave the package uninitialized")
	}
}

// TestReadFileNotInitialized 测试未初始化时读取
func TestReadFileNotInitialized(t *testing.T) {
	reset()

	if _, err := ReadFile("data/sky_config.yaml"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ReadFile before Init: got %v, want ErrNotInitialized", err)
	}
	if Exists("data/sky_config.yaml") {
		t.Error("Exists before Init should be false")
	}
}

// TestReadFile 测试路径规范化和前缀检查
func TestReadFile(t *testing.T) {
	reset()
	defer reset()
	Init(fstest.MapFS{
		"data/sky_config.yaml": {Data: []byte("canvas:\n  width: 640\n")},
	})

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"plain", "data/sky_config.yaml", false},
		{"dot prefix", "./data/sky_config.yaml", false},
		{"missing", "data/none.yaml", true},
		{"wrong prefix", "assets/sky_config.yaml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr && len(data) == 0 {
				t.Error("expected file contents")
			}
			if got := Exists(tt.path); got == tt.wantErr {
				t.Errorf("Exists(%q) = %v", tt.path, got)
			}
		})
	}
}
