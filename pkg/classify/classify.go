// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package classify decides which copy mechanism a source/destination
// pair should use. Classification is pure string inspection: it never
// touches the filesystem or the network and never fails.
package classify

import (
	"net/url"
	"regexp"
)

// 🚚 Transport identifies the mechanism used to move data.
type Transport int

const (
	// TransportLocal copies between two local filesystem paths.
	TransportLocal Transport = iota
	// TransportRemote syncs to or from a [user@]host:path location.
	TransportRemote
	// TransportHTTP downloads the source over http/https/ftp.
	TransportHTTP
)

// 📝 String returns a human-readable transport name.
func (t Transport) String() string {
	switch t {
	case TransportHTTP:
		return "http"
	case TransportRemote:
		return "remote"
	default:
		return "local"
	}
}

// remotePathRe matches rsync/scp-style [user@]host:path notation.
var remotePathRe = regexp.MustCompile(`^(?:[a-zA-Z0-9_.-]+@)?[a-zA-Z0-9_.-]+:.+`)

// 🔍 IsURL reports whether s parses as a URI with an http, https or
// ftp scheme. Any parse failure means "not a URL".
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https", "ftp":
		return true
	}
	return false
}

// 🔍 IsRemotePath reports whether s looks like [user@]host:path.
// Single-letter drive paths (C:\data, c:/data) are treated as local:
// one-character hostnames are vastly less likely than Windows paths,
// so the drive shape wins.
func IsRemotePath(s string) bool {
	if isDrivePath(s) {
		return false
	}
	return remotePathRe.MatchString(s)
}

// isDrivePath reports whether s starts with a Windows drive prefix
// like x:\ or x:/.
func isDrivePath(s string) bool {
	if len(s) < 3 || s[1] != ':' {
		return false
	}
	drive := s[0]
	if !('a' <= drive && drive <= 'z' || 'A' <= drive && drive <= 'Z') {
		return false
	}
	return s[2] == '\\' || s[2] == '/'
}

// 🎯 Pick selects the transport for a source/destination pair. First
// matching rule wins: URL source → HTTP, remote source or destination
// → remote sync, anything else → local sync.
func Pick(src, dst string) Transport {
	if IsURL(src) {
		return TransportHTTP
	}
	if IsRemotePath(src) || IsRemotePath(dst) {
		return TransportRemote
	}
	return TransportLocal
}
