// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package chunkfile

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// subPrefix returns the zip entry-name prefix used for chunks of the
// named sub-stream, following "<prefix><offset>[,<bookmark>]" with
// prefix "<sub>/c." or, for the unnamed default sub-stream, just "c.".
func subPrefix(sub string) string {
	if sub == "" {
		return "c."
	}
	return sub + "/c."
}

// chunkName formats a zip entry name for a chunk starting at the given
// logical offset, optionally tagged with a bookmark key.
func chunkName(prefix string, offset int64, bookmark []byte) string {
	name := fmt.Sprintf("%s%08x", prefix, offset)
	if bookmark != nil {
		name += "," + base64.RawURLEncoding.EncodeToString(bookmark)
	}
	return name
}

// parseChunkName parses a zip entry name into its logical offset and
// optional bookmark, returning ok=false if name does not begin with
// prefix or is otherwise malformed.
func parseChunkName(name, prefix string) (offset int64, bookmark []byte, ok bool) {
	if !strings.HasPrefix(name, prefix) {
		return 0, nil, false
	}
	rest := name[len(prefix):]
	parts := strings.SplitN(rest, ",", 2)
	off, err := strconv.ParseInt(parts[0], 16, 64)
	if err != nil {
		return 0, nil, false
	}
	if len(parts) < 2 {
		return off, nil, true
	}
	bm, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return 0, nil, false
	}
	return off, bm, true
}
