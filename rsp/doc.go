// Package rsp implements the geometry half of the RCP: the modelview
// matrix stack, projection, directional lighting, the vertex pipeline that
// fills the staging vertex table, and trivial triangle rejection.
package rsp
