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

// Package chunkfile implements a chunked compressed container: a single
// archive file holding many named sub-streams, each stored as an ordered
// sequence of independently compressed chunks with optional bookmarks
// attached to chunk boundaries.
//
// The container is backed by a standard zip archive (one member per
// chunk) for random access, and transparently degrades to reading a
// plain gzip stream as a single unseekable sub-stream when the archive
// is not a valid zip file.
package chunkfile
