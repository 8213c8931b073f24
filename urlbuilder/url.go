// Package urlbuilder builds and rewrites absolute URLs through a fluent API.
//
// A URLBuilder holds the scheme, user information, host, port and fragment of
// a URL, a list of path segments and an ordered collection of query
// parameters. Path segments and query values are stored in a normalised form,
// so values that are already percent-encoded are not encoded twice.
//
//	ub, err := urlbuilder.Parse("http://example.local/app")
//	if err != nil {
//		return err
//	}
//	ub.AddPathSegment("users").SetQueryParam("page", 2).AppendQueryParam("role", "admin")
//	fmt.Println(ub) // http://example.local/app/users?page=2&role=admin
//
// A URLBuilder is not safe for concurrent use.
package urlbuilder

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
)

// URLBuilder is a mutable absolute URL. Create one with New, Path or Parse; the
// zero value has an empty query but no scheme, host or port.
type URLBuilder struct {
	scheme   string
	user     *url.Userinfo
	host     string
	port     int
	path     pathSegments
	query    QueryParams
	fragment string
}

// QueryParam is a name/value pair for SetQueryParams.
type QueryParam struct {
	Name  string
	Value any
}

func newURLBuilder() *URLBuilder {
	return &URLBuilder{
		scheme: DefaultScheme,
		host:   DefaultHost,
		port:   NoPort,
	}
}

// New returns a builder for http://localhost/ with no explicit port.
func New() *URLBuilder {
	return newURLBuilder()
}

// Path returns a builder for http://localhost/ with the given path segments.
func Path(segments ...string) *URLBuilder {
	ub := newURLBuilder()
	for _, segment := range segments {
		ub.AddPathSegment(segment)
	}
	return ub
}

// Parse creates a builder from an absolute URL. When rawURL has no scheme,
// http is assumed. If the URL has no port, the scheme's well-known port is
// used, or NoPort when there isn't one.
func Parse(rawURL string) (ub *URLBuilder, err error) {
	if !strings.Contains(rawURL, "://") {
		rawURL = DefaultScheme + "://" + strings.TrimPrefix(rawURL, "//")
	}
	u, err := url.Parse(escapeStrayPercent(rawURL))
	if err != nil {
		return nil, fmt.Errorf("urlbuilder: failed to parse URL: %w", err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("urlbuilder: failed to parse URL %q: %w", rawURL, argumentError("host", ErrEmptyArgument))
	}
	ub = newURLBuilder()
	ub.scheme = u.Scheme
	ub.user = u.User
	ub.host = u.Hostname()
	ub.fragment = u.Fragment
	if p := u.Port(); p != "" {
		if ub.port, err = strconv.Atoi(p); err != nil {
			return nil, fmt.Errorf("urlbuilder: failed to parse port %q: %w", p, err)
		}
		if ub.port > 65535 {
			return nil, fmt.Errorf("urlbuilder: failed to parse URL %q: %w", rawURL, argumentError("port", ErrInvalidArgument))
		}
	} else if dp, ok := DefaultPort(ub.scheme); ok {
		ub.port = dp
	}
	ub.path.set(u.EscapedPath())
	ub.query = *ParseQuery(u.RawQuery)
	return ub, nil
}

// MustParse is like Parse but panics if the URL cannot be parsed.
func MustParse(rawURL string) *URLBuilder {
	ub, err := Parse(rawURL)
	if err != nil {
		panic(err)
	}
	return ub
}

// FromURL creates a builder from u.
func FromURL(u *url.URL) (*URLBuilder, error) {
	if u == nil {
		return nil, argumentError("url", ErrNullArgument)
	}
	return Parse(u.String())
}

// Copy creates a builder from the string form of ub.
func Copy(ub *URLBuilder) (*URLBuilder, error) {
	if ub == nil {
		return nil, argumentError("urlBuilder", ErrNullArgument)
	}
	return Parse(ub.String())
}

// Clone returns an independent copy of ub.
func (ub *URLBuilder) Clone() *URLBuilder {
	c := *ub
	c.path = ub.path.clone()
	c.query = *ub.query.Clone()
	return &c
}

func (ub *URLBuilder) Scheme() string {
	return ub.scheme
}

// SetScheme sets the scheme. If the port is the current scheme's well-known
// port, it is changed to the well-known port of the new scheme, if it has one.
func (ub *URLBuilder) SetScheme(scheme string) error {
	if scheme == "" {
		return argumentError("scheme", ErrEmptyArgument)
	}
	if !validScheme(scheme) {
		return argumentError("scheme", fmt.Errorf("%w: %q is not a valid scheme", ErrInvalidArgument, scheme))
	}
	if dp, ok := DefaultPort(scheme); ok && ub.hasDefaultPort() {
		ub.port = dp
	}
	ub.scheme = scheme
	return nil
}

// validScheme reports whether scheme matches ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ).
func validScheme(scheme string) bool {
	for i := 0; i < len(scheme); i++ {
		c := scheme[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' || c == '+' || c == '-' || c == '.':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Port returns the port, or NoPort.
func (ub *URLBuilder) Port() int {
	return ub.port
}

// SetPort sets the port. Use NoPort to clear it.
func (ub *URLBuilder) SetPort(port int) error {
	if port < NoPort || port > 65535 {
		return argumentError("port", fmt.Errorf("%w: %d is out of range", ErrInvalidArgument, port))
	}
	ub.port = port
	return nil
}

func (ub *URLBuilder) hasDefaultPort() bool {
	dp, ok := DefaultPort(ub.scheme)
	return ok && dp == ub.port
}

// Host returns the DNS name or IP address of the server.
func (ub *URLBuilder) Host() string {
	return ub.host
}

// SetHost sets the DNS name or IP address of the server. IPv6 addresses may be
// given with or without brackets.
func (ub *URLBuilder) SetHost(host string) error {
	if host == "" {
		return argumentError("host", ErrEmptyArgument)
	}
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}
	if !validHost(host) {
		return argumentError("host", fmt.Errorf("%w: %q is not a valid host", ErrInvalidArgument, host))
	}
	ub.host = host
	return nil
}

// validHost rejects characters that would end the authority or be read as
// user information.
func validHost(host string) bool {
	if host == "" {
		return false
	}
	for i := 0; i < len(host); i++ {
		switch c := host[i]; {
		case c <= ' ' || c == 0x7f:
			return false
		case strings.IndexByte("/?#@[]\\", c) >= 0:
			return false
		}
	}
	return true
}

// User returns the user information, or nil.
func (ub *URLBuilder) User() *url.Userinfo {
	return ub.user
}

// SetUser sets the user information. Pass nil to remove it.
func (ub *URLBuilder) SetUser(user *url.Userinfo) *URLBuilder {
	ub.user = user
	return ub
}

// Fragment returns the unescaped fragment.
func (ub *URLBuilder) Fragment() string {
	return ub.fragment
}

func (ub *URLBuilder) SetFragment(fragment string) *URLBuilder {
	ub.fragment = fragment
	return ub
}

// Path returns the path without its leading slash, e.g. "app/users/".
func (ub *URLBuilder) Path() string {
	return ub.path.String()
}

// SetPath replaces the path. Empty segments are dropped, and the path keeps a
// trailing slash if the input ends with one.
func (ub *URLBuilder) SetPath(path string) *URLBuilder {
	ub.path.set(path)
	return ub
}

// AddPathSegment appends a segment to the path. A segment that ends in '/'
// gives the path a trailing slash, so AddPathSegment("/") adds just the slash.
func (ub *URLBuilder) AddPathSegment(segment string) *URLBuilder {
	ub.path.add(segment)
	return ub
}

// RemovePathSegment removes the first occurrence of segment from the path.
func (ub *URLBuilder) RemovePathSegment(segment string) *URLBuilder {
	ub.path.remove(segment)
	return ub
}

// Segments returns the encoded path segments.
func (ub *URLBuilder) Segments() []string {
	return ub.path.clone().segments
}

func (ub *URLBuilder) HasTrailingSlash() bool {
	return ub.path.trailingSlash
}

// SetQueryParam adds a parameter to the query string, overwriting the value if
// name exists. Slices are stored as a list of values.
func (ub *URLBuilder) SetQueryParam(name string, value any) *URLBuilder {
	ub.query.Set(name, value)
	return ub
}

// SetQueryParams sets each parameter in turn, overwriting any that already exist.
func (ub *URLBuilder) SetQueryParams(params ...QueryParam) *URLBuilder {
	for _, p := range params {
		ub.query.Set(p.Name, p.Value)
	}
	return ub
}

// AppendQueryParam adds a parameter to the query string, appending the value
// if the parameter already exists.
func (ub *URLBuilder) AppendQueryParam(name string, value any) *URLBuilder {
	ub.query.Append(name, value)
	return ub
}

// Query appends a query string parameter.
func (ub *URLBuilder) Query(key string, value any) *URLBuilder {
	return ub.AppendQueryParam(key, value)
}

func (ub *URLBuilder) QueryParam(name string) Value {
	return ub.query.Get(name)
}

func (ub *URLBuilder) ContainsQueryParam(name string) bool {
	return ub.query.Contains(name)
}

// QueryParamNames returns the query parameter names in insertion order.
func (ub *URLBuilder) QueryParamNames() []string {
	return ub.query.Names()
}

func (ub *URLBuilder) RemoveQueryParam(name string) *URLBuilder {
	ub.query.Remove(name)
	return ub
}

func (ub *URLBuilder) RemoveQueryParams(names ...string) *URLBuilder {
	ub.query.Remove(names...)
	return ub
}

// QueryParams returns a copy of the query parameters.
func (ub *URLBuilder) QueryParams() *QueryParams {
	return ub.query.Clone()
}

// String returns the absolute URL. The port is left out when it is the
// scheme's well-known port.
func (ub *URLBuilder) String() string {
	var sb strings.Builder
	sb.WriteString(ub.scheme)
	sb.WriteString("://")
	if ub.user != nil {
		sb.WriteString(ub.user.String())
		sb.WriteByte('@')
	}
	if strings.Contains(ub.host, ":") {
		sb.WriteByte('[')
		sb.WriteString(ub.host)
		sb.WriteByte(']')
	} else {
		sb.WriteString(ub.host)
	}
	if ub.port != NoPort && !ub.hasDefaultPort() {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(ub.port))
	}
	sb.WriteByte('/')
	sb.WriteString(ub.pathQueryFragment())
	return sb.String()
}

// ToRelativeString returns the URL relative to its scheme, host and port,
// e.g. "app/users?page=2".
func (ub *URLBuilder) ToRelativeString() string {
	rel := ub.pathQueryFragment()
	if len(ub.path.segments) > 0 && strings.Contains(ub.path.segments[0], ":") {
		// Otherwise the first segment would be read as a scheme.
		rel = "./" + rel
	}
	return rel
}

func (ub *URLBuilder) pathQueryFragment() string {
	s := ub.path.String()
	if query := ub.query.String(); query != "" {
		s += "?" + query
	}
	if ub.fragment != "" {
		s += "#" + escape(unescape(ub.fragment), encodeSegment)
	}
	return s
}

// ToURL returns the absolute URL as a *url.URL.
func (ub *URLBuilder) ToURL() (*url.URL, error) {
	u, err := url.Parse(ub.String())
	if err != nil {
		return nil, fmt.Errorf("urlbuilder: failed to build URL: %w", err)
	}
	return u, nil
}

// ToRelativeURL returns the relative URL as a *url.URL.
func (ub *URLBuilder) ToRelativeURL() (*url.URL, error) {
	u, err := url.Parse(ub.ToRelativeString())
	if err != nil {
		return nil, fmt.Errorf("urlbuilder: failed to build relative URL: %w", err)
	}
	return u, nil
}

func (ub *URLBuilder) MarshalText() (text []byte, err error) {
	return []byte(ub.String()), nil
}

func (ub *URLBuilder) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*ub = *parsed
	return nil
}

// LogValue implements slog.LogValuer. User information is never logged.
func (ub *URLBuilder) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("scheme", ub.scheme),
		slog.String("host", ub.host),
		slog.Int("port", ub.port),
		slog.String("path", ub.path.String()),
		slog.String("query", ub.query.String()),
		slog.String("fragment", ub.fragment),
	)
}
