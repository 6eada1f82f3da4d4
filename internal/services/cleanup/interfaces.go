package cleanupservice

import "context"

type FileStorage interface {
	List(dir string) ([]string, error)
	Remove(rel string) error
	Abs(rel string) (string, error)
}

type PathLister interface {
	Paths(ctx context.Context) ([]string, error)
}
