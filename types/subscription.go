package types

type Subscription struct {
	ID    string
	Name  string
	State string
}

func (subscription Subscription) IsEnabled() bool {
	return subscription.State == "" || subscription.State == "Enabled"
}
