// Copyright 2025 Compass Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"testing"
)

func TestDefaultConf(t *testing.T) {
	conf := SetDefaults()

	if conf.Output != "stdout" {
		t.Errorf("expected output to be stdout, got %s", conf.Output)
	}

	if conf.Level != "info" {
		t.Errorf("expected level to be info, got %s", conf.Level)
	}

	if conf.KeepDays != 7 {
		t.Errorf("expected KeepDays to be 7, got %d", conf.KeepDays)
	}
}

func TestLogConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		conf    *LogConfig
		wantErr bool
	}{
		{
			name: "valid stdout config",
			conf: &LogConfig{
				Output: "stdout",
				Level:  "info",
			},
			wantErr: false,
		},
		{
			name: "valid file config",
			conf: &LogConfig{
				Output:     "file",
				Path:       "/tmp/logs",
				Level:      "debug",
				KeepDays:   7,
				RotateSize: 100,
				RotateNum:  10,
			},
			wantErr: false,
		},
		{
			name: "invalid file config - missing path",
			conf: &LogConfig{
				Output: "file",
				Level:  "info",
			},
			wantErr: true,
		},
		{
			name: "file config with auto-correction",
			conf: &LogConfig{
				Output: "file",
				Path:   "/tmp/logs",
				Level:  "info",
				// 未设置 KeepDays, RotateSize, RotateNum
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}

			// 验证自动修正
			if !tt.wantErr && tt.conf.Output == "file" {
				if tt.conf.RotateSize <= 0 {
					t.Error("RotateSize should be auto-corrected to positive value")
				}
				if tt.conf.RotateNum <= 0 {
					t.Error("RotateNum should be auto-corrected to positive value")
				}
				if tt.conf.KeepDays <= 0 {
					t.Error("KeepDays should be auto-corrected to positive value")
				}
			}
		})
	}
}

func TestNewLog_Stdout(t *testing.T) {
	conf := &LogConfig{
		Output: "stdout",
		Level:  "debug",
	}

	logger, err := NewLog(conf)
	if err != nil {
		t.Fatalf("NewLog() error = %v", err)
	}

	if logger == nil {
		t.Fatal("expected non-nil logger")
	}

	logger.Info("test message")
}

func TestGlobalLogFunctions(t *testing.T) {
	if _, err := NewLog(SetDefaults()); err != nil {
		t.Fatalf("NewLog() error = %v", err)
	}

	Info("test info message")
	Infof("formatted %s message", "info")
	Infow("structured info", "key1", "value1", "key2", 123)
	Warnw("structured warn", "count", 5)
	Errorw("structured error", "error", "something went wrong")
}

func TestConcurrentLogging(t *testing.T) {
	if _, err := NewLog(SetDefaults()); err != nil {
		t.Fatalf("NewLog() error = %v", err)
	}

	done := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		n := i
		go func() {
			Infow("concurrent message", "number", n)
			Warnw("warn message", "number", n)
			done <- true
		}()
	}
	for range 100 {
		<-done
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"fatal", FatalLevel},
		{"invalid", InfoLevel}, // 默认值
		{"", InfoLevel},        // 默认值
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseLogLevel(tt.input)
			if result != tt.expected {
				t.Errorf("ParseLogLevel(%s) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}
