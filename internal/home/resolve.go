package home

import "strings"

// DefaultName is used when neither the profile nor the email yield a name.
const DefaultName = "User"

// Source records which rule produced a display name.
type Source int

const (
	SourceProfile Source = iota
	SourceEmailLocalPart
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceProfile:
		return "profile"
	case SourceEmailLocalPart:
		return "email"
	default:
		return "default"
	}
}

// Resolution is the display name chosen for a session.
type Resolution struct {
	Name   string
	Source Source
}

// UsedFallback reports whether the profile name was unavailable.
func (r Resolution) UsedFallback() bool {
	return r.Source != SourceProfile
}

// ResolveDisplayName picks, in order: the profile's full name, the part of
// email before the first "@", then DefaultName. Blank values are skipped.
func ResolveDisplayName(profileName, email string) Resolution {
	if name := strings.TrimSpace(profileName); name != "" {
		return Resolution{Name: name, Source: SourceProfile}
	}
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	if local = strings.TrimSpace(local); local != "" {
		return Resolution{Name: local, Source: SourceEmailLocalPart}
	}
	return Resolution{Name: DefaultName, Source: SourceDefault}
}
