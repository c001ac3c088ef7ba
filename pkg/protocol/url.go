package protocol

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
)

// URL 表示一个 Accumulate 账户地址, 形如 acc://alice.acme/tokens。
// Authority 是身份部分 (alice.acme), Path 是账户路径 (/tokens)。
type URL struct {
	Authority string
	Path      string
}

var ErrInvalidURL = errors.New("invalid account url")

// ParseURL 解析账户 URL。acc:// 前缀可省略。
func ParseURL(s string) (*URL, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "acc://")
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if strings.ContainsAny(s, " \t\n") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, s)
	}

	u := new(URL)
	if i := strings.IndexByte(s, '/'); i < 0 {
		u.Authority = s
	} else {
		u.Authority = s[:i]
		u.Path = s[i:]
	}
	if u.Authority == "" {
		return nil, fmt.Errorf("%w: missing authority in %q", ErrInvalidURL, s)
	}
	return u, nil
}

// MustParseURL 解析失败时 panic, 仅用于常量和测试。
func MustParseURL(s string) *URL {
	u, err := ParseURL(s)
	if err != nil {
		panic(err)
	}
	return u
}

func (u *URL) String() string {
	if u == nil {
		return ""
	}
	return "acc://" + u.Authority + u.Path
}

// Identity 返回去掉路径的身份 URL。
func (u *URL) Identity() *URL {
	return &URL{Authority: u.Authority}
}

// JoinPath 在当前 URL 上追加一段路径。
func (u *URL) JoinPath(p string) *URL {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return &URL{Authority: u.Authority, Path: u.Path + p}
}

// Equal 比较两个 URL (大小写不敏感, 符合协议规则)。
func (u *URL) Equal(v *URL) bool {
	if u == nil || v == nil {
		return u == v
	}
	return strings.EqualFold(u.Authority, v.Authority) && strings.EqualFold(u.Path, v.Path)
}

// AccountID 返回 URL 的 32 字节标识 (小写形式的 SHA-256)。
func (u *URL) AccountID() []byte {
	h := sha256.Sum256([]byte(strings.ToLower(u.String())))
	return h[:]
}

func (u *URL) MarshalJSON() ([]byte, error) {
	return []byte(`"` + u.String() + `"`), nil
}

func (u *URL) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	v, err := ParseURL(s)
	if err != nil {
		return err
	}
	*u = *v
	return nil
}
