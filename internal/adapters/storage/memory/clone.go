package memory

// Los repos guardan y devuelven copias: un servicio que hace append sobre
// un slice devuelto no puede tocar lo guardado.

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
