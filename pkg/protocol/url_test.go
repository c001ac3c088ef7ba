package protocol

import (
	"encoding/json"
	"testing"
)

func TestParseURL(t *testing.T) {
	u, err := ParseURL("acc://alice.acme/tokens")
	if err != nil {
		t.Fatalf("ParseURL 失败: %v", err)
	}
	if u.Authority != "alice.acme" || u.Path != "/tokens" {
		t.Errorf("解析结果错误: %+v", u)
	}

	// acc:// 前缀可省略
	u2, err := ParseURL("alice.acme/tokens")
	if err != nil {
		t.Fatalf("无前缀解析失败: %v", err)
	}
	if !u.Equal(u2) {
		t.Error("带前缀与不带前缀应解析到同一 URL")
	}

	// 非法输入
	for _, bad := range []string{"", "acc://", "acc:///tokens", "a b"} {
		if _, err := ParseURL(bad); err == nil {
			t.Errorf("ParseURL(%q) 应该失败", bad)
		}
	}
}

func TestURLString(t *testing.T) {
	u := MustParseURL("alice.acme/book/1")
	if got := u.String(); got != "acc://alice.acme/book/1" {
		t.Errorf("String() = %q", got)
	}
	if got := u.Identity().String(); got != "acc://alice.acme" {
		t.Errorf("Identity() = %q", got)
	}
	if got := u.Identity().JoinPath("tokens").String(); got != "acc://alice.acme/tokens" {
		t.Errorf("JoinPath() = %q", got)
	}
}

func TestURLEqualCaseInsensitive(t *testing.T) {
	a := MustParseURL("acc://Alice.ACME/Tokens")
	b := MustParseURL("acc://alice.acme/tokens")
	if !a.Equal(b) {
		t.Error("URL 比较应该大小写不敏感")
	}
	// AccountID 按小写形式计算, 两种写法必须一致
	if string(a.AccountID()) != string(b.AccountID()) {
		t.Error("大小写不同的同一 URL 的 AccountID 应相同")
	}
}

func TestURLJSON(t *testing.T) {
	u := MustParseURL("acc://alice.acme/tokens")
	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("MarshalJSON 失败: %v", err)
	}
	if string(data) != `"acc://alice.acme/tokens"` {
		t.Errorf("JSON = %s", data)
	}

	var v URL
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("UnmarshalJSON 失败: %v", err)
	}
	if !u.Equal(&v) {
		t.Error("JSON 往返后 URL 不一致")
	}
}
