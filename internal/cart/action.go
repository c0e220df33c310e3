package cart

// Action is the closed set of transitions the reducer understands.
type Action interface {
	Kind() string
	isAction()
}

type Loading struct{}

type Success struct {
	Products []Product
}

type Failure struct{}

type Add struct {
	Product Product
}

type RemoveOne struct {
	ProductID int64
}

const (
	KindLoading   = "loading"
	KindSuccess   = "success"
	KindFailure   = "error"
	KindAdd       = "add"
	KindRemoveOne = "remove_one"
)

func (Loading) Kind() string   { return KindLoading }
func (Success) Kind() string   { return KindSuccess }
func (Failure) Kind() string   { return KindFailure }
func (Add) Kind() string       { return KindAdd }
func (RemoveOne) Kind() string { return KindRemoveOne }

func (Loading) isAction()   {}
func (Success) isAction()   {}
func (Failure) isAction()   {}
func (Add) isAction()       {}
func (RemoveOne) isAction() {}
