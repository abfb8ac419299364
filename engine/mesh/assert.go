package mesh

import "fmt"

func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("mesh: "+format, args...))
	}
}
