package events

import (
	"github.com/debank-vn/debank-contract/rpc/debank"
	"github.com/debank-vn/debank-contract/rpc/vndt"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// LogObserver writes every event into the log.
type LogObserver struct {
	Logger *zap.Logger
}

func addr(key string, h util.Uint160) zap.Field {
	return zap.String(key, address.Uint160ToString(h))
}

func (l LogObserver) AccountOpened(e *debank.AccountOpenedEvent) {
	l.Logger.Info("account opened", addr("account", e.Account))
}

func (l LogObserver) Deposited(e *debank.DepositedEvent) {
	l.Logger.Info("deposit", addr("account", e.Account),
		zap.Stringer("amount", e.Amount), zap.Stringer("balance", e.Balance))
}

func (l LogObserver) Withdrawn(e *debank.WithdrawnEvent) {
	l.Logger.Info("withdrawal", addr("account", e.Account),
		zap.Stringer("amount", e.Amount), zap.Stringer("balance", e.Balance))
}

func (l LogObserver) Transferred(e *debank.TransferredEvent) {
	l.Logger.Info("transfer", addr("from", e.From), addr("to", e.To),
		zap.Stringer("amount", e.Amount), zap.Stringer("fee", e.Fee))
}

func (l LogObserver) SavingsDeposited(e *debank.SavingsDepositedEvent) {
	l.Logger.Info("savings deposit", addr("account", e.Account), zap.Stringer("id", e.ID),
		zap.Stringer("amount", e.Amount), zap.Stringer("months", e.DurationMonths))
}

func (l LogObserver) DailyTransferLimitUpdated(e *debank.DailyTransferLimitUpdatedEvent) {
	l.Logger.Info("daily transfer limit updated", zap.Stringer("limit", e.Limit))
}

func (l LogObserver) TransferFeeRateUpdated(e *debank.TransferFeeRateUpdatedEvent) {
	l.Logger.Info("transfer fee rate updated", zap.Stringer("rate", e.Rate))
}

func (l LogObserver) FeeReceiverUpdated(e *debank.FeeReceiverUpdatedEvent) {
	l.Logger.Info("fee receiver updated", addr("receiver", e.Receiver))
}

func (l LogObserver) Paused(e *debank.PausedEvent) {
	l.Logger.Warn("ledger paused", addr("by", e.Account))
}

func (l LogObserver) Unpaused(e *debank.UnpausedEvent) {
	l.Logger.Info("ledger unpaused", addr("by", e.Account))
}

func (l LogObserver) VNDTRecovered(e *debank.VNDTRecoveredEvent) {
	l.Logger.Warn("VNDT recovered from ledger", addr("to", e.Account), zap.Stringer("amount", e.Amount))
}

func (l LogObserver) BankOwnershipTransferred(e *debank.OwnershipTransferredEvent) {
	l.Logger.Warn("ledger ownership transferred",
		addr("previous", e.PreviousOwner), addr("new", e.NewOwner))
}

func (l LogObserver) Approval(e *vndt.ApprovalEvent) {
	l.Logger.Debug("token approval", addr("owner", e.Owner), addr("spender", e.Spender),
		zap.Stringer("amount", e.Amount))
}

func (l LogObserver) TokenOwnershipTransferred(e *vndt.OwnershipTransferredEvent) {
	l.Logger.Warn("token ownership transferred",
		addr("previous", e.PreviousOwner), addr("new", e.NewOwner))
}

// Multi fans every event out to all observers in order.
type Multi []Observer

func (m Multi) AccountOpened(e *debank.AccountOpenedEvent) {
	for _, o := range m {
		o.AccountOpened(e)
	}
}

func (m Multi) Deposited(e *debank.DepositedEvent) {
	for _, o := range m {
		o.Deposited(e)
	}
}

func (m Multi) Withdrawn(e *debank.WithdrawnEvent) {
	for _, o := range m {
		o.Withdrawn(e)
	}
}

func (m Multi) Transferred(e *debank.TransferredEvent) {
	for _, o := range m {
		o.Transferred(e)
	}
}

func (m Multi) SavingsDeposited(e *debank.SavingsDepositedEvent) {
	for _, o := range m {
		o.SavingsDeposited(e)
	}
}

func (m Multi) DailyTransferLimitUpdated(e *debank.DailyTransferLimitUpdatedEvent) {
	for _, o := range m {
		o.DailyTransferLimitUpdated(e)
	}
}

func (m Multi) TransferFeeRateUpdated(e *debank.TransferFeeRateUpdatedEvent) {
	for _, o := range m {
		o.TransferFeeRateUpdated(e)
	}
}

func (m Multi) FeeReceiverUpdated(e *debank.FeeReceiverUpdatedEvent) {
	for _, o := range m {
		o.FeeReceiverUpdated(e)
	}
}

func (m Multi) Paused(e *debank.PausedEvent) {
	for _, o := range m {
		o.Paused(e)
	}
}

func (m Multi) Unpaused(e *debank.UnpausedEvent) {
	for _, o := range m {
		o.Unpaused(e)
	}
}

func (m Multi) VNDTRecovered(e *debank.VNDTRecoveredEvent) {
	for _, o := range m {
		o.VNDTRecovered(e)
	}
}

func (m Multi) BankOwnershipTransferred(e *debank.OwnershipTransferredEvent) {
	for _, o := range m {
		o.BankOwnershipTransferred(e)
	}
}

func (m Multi) Approval(e *vndt.ApprovalEvent) {
	for _, o := range m {
		o.Approval(e)
	}
}

func (m Multi) TokenOwnershipTransferred(e *vndt.OwnershipTransferredEvent) {
	for _, o := range m {
		o.TokenOwnershipTransferred(e)
	}
}
