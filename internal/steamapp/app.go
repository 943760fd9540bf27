package steamapp

import (
	"strconv"
	"strings"
)

// App is one catalog row: AppID -> Name.
type App struct {
	AppID uint32  `json:"appid"`
	Name  *string `json:"name"`
}

// New returns an App with the given name.
func New(id uint32, name string) App {
	return App{AppID: id, Name: &name}
}

// Unnamed returns the synthesized entry used when an identifier is not in the catalog.
func Unnamed(id uint32) App {
	return App{AppID: id}
}

// HasName reports whether the entry carries a name.
func (a App) HasName() bool {
	return a.Name != nil
}

// NameOr returns the name, or def when the entry has none.
func (a App) NameOr(def string) string {
	if a.Name == nil {
		return def
	}
	return *a.Name
}

// String renders the entry as "appid=name".
func (a App) String() string {
	return strconv.FormatUint(uint64(a.AppID), 10) + "=" + a.NameOr("")
}

// ParseAppID reports whether s is an unsigned 32-bit decimal identifier.
// Surrounding whitespace is ignored.
func ParseAppID(s string) (uint32, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(id), true
}
