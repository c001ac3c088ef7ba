package safe_random

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestGenerateRandomBytes(t *testing.T) {
	b, err := GenerateRandomBytes(32)
	if err != nil {
		t.Fatalf("GenerateRandomBytes 失败: %v", err)
	}
	if len(b) != 32 {
		t.Errorf("长度 = %d, 期望 32", len(b))
	}

	// 两次生成不应相同 (全零或重复说明随机源有问题)
	b2, _ := GenerateRandomBytes(32)
	if bytes.Equal(b, b2) {
		t.Error("连续两次生成的随机字节相同")
	}
	if bytes.Equal(b, make([]byte, 32)) {
		t.Error("返回了全零数据, 随机源可能失效")
	}
}

func TestGenerateRandomHexString(t *testing.T) {
	s, err := GenerateRandomHexString(16)
	if err != nil {
		t.Fatalf("GenerateRandomHexString 失败: %v", err)
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("解码 Hex 字符串失败: %v", err)
	}
	if len(decoded) != 16 {
		t.Errorf("底层字节长度 = %d, 期望 16", len(decoded))
	}
}
