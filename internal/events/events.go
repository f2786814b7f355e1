// Package events routes DeBank and VNDT contract notifications to typed
// observers.
package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/debank-vn/debank-contract/rpc/debank"
	"github.com/debank-vn/debank-contract/rpc/vndt"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Observer receives decoded contract events.
type Observer interface {
	AccountOpened(*debank.AccountOpenedEvent)
	Deposited(*debank.DepositedEvent)
	Withdrawn(*debank.WithdrawnEvent)
	Transferred(*debank.TransferredEvent)
	SavingsDeposited(*debank.SavingsDepositedEvent)
	DailyTransferLimitUpdated(*debank.DailyTransferLimitUpdatedEvent)
	TransferFeeRateUpdated(*debank.TransferFeeRateUpdatedEvent)
	FeeReceiverUpdated(*debank.FeeReceiverUpdatedEvent)
	Paused(*debank.PausedEvent)
	Unpaused(*debank.UnpausedEvent)
	VNDTRecovered(*debank.VNDTRecoveredEvent)
	BankOwnershipTransferred(*debank.OwnershipTransferredEvent)

	Approval(*vndt.ApprovalEvent)
	TokenOwnershipTransferred(*vndt.OwnershipTransferredEvent)
}

// NopObserver implements Observer and ignores everything. Embed it to
// handle a subset of events.
type NopObserver struct{}

func (NopObserver) AccountOpened(*debank.AccountOpenedEvent)                         {}
func (NopObserver) Deposited(*debank.DepositedEvent)                                 {}
func (NopObserver) Withdrawn(*debank.WithdrawnEvent)                                 {}
func (NopObserver) Transferred(*debank.TransferredEvent)                             {}
func (NopObserver) SavingsDeposited(*debank.SavingsDepositedEvent)                   {}
func (NopObserver) DailyTransferLimitUpdated(*debank.DailyTransferLimitUpdatedEvent) {}
func (NopObserver) TransferFeeRateUpdated(*debank.TransferFeeRateUpdatedEvent)       {}
func (NopObserver) FeeReceiverUpdated(*debank.FeeReceiverUpdatedEvent)               {}
func (NopObserver) Paused(*debank.PausedEvent)                                       {}
func (NopObserver) Unpaused(*debank.UnpausedEvent)                                   {}
func (NopObserver) VNDTRecovered(*debank.VNDTRecoveredEvent)                         {}
func (NopObserver) BankOwnershipTransferred(*debank.OwnershipTransferredEvent)       {}
func (NopObserver) Approval(*vndt.ApprovalEvent)                                     {}
func (NopObserver) TokenOwnershipTransferred(*vndt.OwnershipTransferredEvent)        {}

// ErrUnknownEvent is returned by Dispatcher for notifications it can't decode
// into a typed event.
var ErrUnknownEvent = errors.New("unknown event")

// Dispatcher decodes notifications of the ledger and token contracts.
type Dispatcher struct {
	Ledger   util.Uint160
	Token    util.Uint160
	Observer Observer
}

// Dispatch decodes a single notification and passes it to the observer.
// Notifications of other contracts are skipped. Token events without typed
// representation (like NEP-17 Transfer) return ErrUnknownEvent.
func (d Dispatcher) Dispatch(n *state.NotificationEvent) error {
	switch {
	case n.ScriptHash.Equals(d.Ledger):
		return d.dispatchLedger(n)
	case n.ScriptHash.Equals(d.Token):
		return d.dispatchToken(n)
	default:
		return nil
	}
}

// DispatchLog dispatches every notification of the application log.
func (d Dispatcher) DispatchLog(log *result.ApplicationLog) error {
	if log == nil {
		return errors.New("nil application log")
	}

	for i := range log.Executions {
		for j := range log.Executions[i].Events {
			err := d.Dispatch(&log.Executions[i].Events[j])
			if err != nil && !errors.Is(err, ErrUnknownEvent) {
				return fmt.Errorf("execution #%d, event #%d: %w", i, j, err)
			}
		}
	}

	return nil
}

func (d Dispatcher) dispatchLedger(n *state.NotificationEvent) error {
	o := d.Observer

	switch n.Name {
	case "AccountOpened":
		return decode(n, new(debank.AccountOpenedEvent), o.AccountOpened)
	case "Deposited":
		return decode(n, new(debank.DepositedEvent), o.Deposited)
	case "Withdrawn":
		return decode(n, new(debank.WithdrawnEvent), o.Withdrawn)
	case "Transferred":
		return decode(n, new(debank.TransferredEvent), o.Transferred)
	case "SavingsDeposited":
		return decode(n, new(debank.SavingsDepositedEvent), o.SavingsDeposited)
	case "DailyTransferLimitUpdated":
		return decode(n, new(debank.DailyTransferLimitUpdatedEvent), o.DailyTransferLimitUpdated)
	case "TransferFeeRateUpdated":
		return decode(n, new(debank.TransferFeeRateUpdatedEvent), o.TransferFeeRateUpdated)
	case "FeeReceiverUpdated":
		return decode(n, new(debank.FeeReceiverUpdatedEvent), o.FeeReceiverUpdated)
	case "Paused":
		return decode(n, new(debank.PausedEvent), o.Paused)
	case "Unpaused":
		return decode(n, new(debank.UnpausedEvent), o.Unpaused)
	case "VNDTRecovered":
		return decode(n, new(debank.VNDTRecoveredEvent), o.VNDTRecovered)
	case "OwnershipTransferred":
		return decode(n, new(debank.OwnershipTransferredEvent), o.BankOwnershipTransferred)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEvent, n.Name)
	}
}

func (d Dispatcher) dispatchToken(n *state.NotificationEvent) error {
	o := d.Observer

	switch n.Name {
	case "Approval":
		return decode(n, new(vndt.ApprovalEvent), o.Approval)
	case "OwnershipTransferred":
		return decode(n, new(vndt.OwnershipTransferredEvent), o.TokenOwnershipTransferred)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEvent, n.Name)
	}
}

// event is a pointer to typed event of the bindings.
type event[T any] interface {
	*T
	FromStackItem(*stackitem.Array) error
}

func decode[T any, E event[T]](n *state.NotificationEvent, e E, handle func(E)) error {
	err := e.FromStackItem(n.Item)
	if err != nil {
		return fmt.Errorf("decode %s event: %w", n.Name, err)
	}

	handle(e)

	return nil
}

// Subscriber is a websocket RPC client able to deliver contract
// notifications.
type Subscriber interface {
	ReceiveExecutionNotifications(flt *neorpc.NotificationFilter, rcvr chan<- *state.ContainedNotificationEvent) (string, error)
	Unsubscribe(id string) error
}

// ErrSubscriptionClosed is returned by Watch when the notification channel
// is closed by the client, e.g. on connection loss.
var ErrSubscriptionClosed = errors.New("subscription closed")

// Watch subscribes to the notifications of both contracts and dispatches
// them until the context is done or the subscription is closed. Undecodable
// notifications are passed to onErr and don't stop watching.
func (d Dispatcher) Watch(ctx context.Context, s Subscriber, onErr func(*state.ContainedNotificationEvent, error)) error {
	ch := make(chan *state.ContainedNotificationEvent)

	var ids []string
	defer func() {
		for _, id := range ids {
			_ = s.Unsubscribe(id)
		}
	}()

	for _, h := range []util.Uint160{d.Ledger, d.Token} {
		h := h

		id, err := s.ReceiveExecutionNotifications(&neorpc.NotificationFilter{Contract: &h}, ch)
		if err != nil {
			return fmt.Errorf("subscribe to %s notifications: %w", h.StringLE(), err)
		}

		ids = append(ids, id)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-ch:
			if !ok {
				return ErrSubscriptionClosed
			}

			err := d.Dispatch(&n.NotificationEvent)
			if err != nil && onErr != nil {
				onErr(n, err)
			}
		}
	}
}
