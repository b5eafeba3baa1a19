//go:build linux

package fsio

import (
	"os"
	"syscall"
)

func fillPlatform(fi os.FileInfo, st *Stat) {
	sys, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		st.Creation = st.Modification
		return
	}
	st.Creation = sys.Ctim.Sec
	st.UID = sys.Uid
	st.GID = sys.Gid
}
