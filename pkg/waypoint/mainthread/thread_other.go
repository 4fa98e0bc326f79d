//go:build !linux

package mainthread

func currentThread() int64 {
	return 0
}
