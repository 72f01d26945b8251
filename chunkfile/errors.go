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

import "errors"

var (
	// ErrInvalidArchive is returned when a path is neither a valid zip
	// container nor a valid gzip stream.
	ErrInvalidArchive = errors.New("chunkfile: not a valid zip or gzip archive")
	// ErrUnsupported is returned for operations the current backing
	// (zip vs. gzip) or mode does not support.
	ErrUnsupported = errors.New("chunkfile: unsupported operation")
	// ErrBookmarkOrder is returned when Bookmark is called with a key
	// smaller than the previous bookmark key.
	ErrBookmarkOrder = errors.New("chunkfile: bookmark keys must be non-decreasing")
)
