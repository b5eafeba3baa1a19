//go:build !linux && !darwin

package fsio

import "os"

func fillPlatform(fi os.FileInfo, st *Stat) {
	st.Creation = st.Modification
}
