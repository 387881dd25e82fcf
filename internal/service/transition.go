package service

import "github.com/d60-Lab/waimai/internal/model"

// TransitionPolicy 订单状态流转表。
// 非严格模式下允许任意合法状态之间的跳转，严格模式下只允许表内的流转。
type TransitionPolicy struct {
	strict  bool
	allowed map[model.OrderStatus]map[model.OrderStatus]struct{}
}

// NewTransitionPolicy 使用默认流转表
//
//	Pending    -> Accepted | Cancelled
//	Accepted   -> Delivering | Cancelled
//	Delivering -> Completed
func NewTransitionPolicy(strict bool) *TransitionPolicy {
	p := &TransitionPolicy{strict: strict, allowed: map[model.OrderStatus]map[model.OrderStatus]struct{}{}}
	p.allow(model.OrderStatusPending, model.OrderStatusAccepted, model.OrderStatusCancelled)
	p.allow(model.OrderStatusAccepted, model.OrderStatusDelivering, model.OrderStatusCancelled)
	p.allow(model.OrderStatusDelivering, model.OrderStatusCompleted)
	return p
}

func (p *TransitionPolicy) allow(from model.OrderStatus, to ...model.OrderStatus) {
	set, ok := p.allowed[from]
	if !ok {
		set = map[model.OrderStatus]struct{}{}
		p.allowed[from] = set
	}
	for _, s := range to {
		set[s] = struct{}{}
	}
}

// Strict 是否启用流转校验
func (p *TransitionPolicy) Strict() bool { return p != nil && p.strict }

// Allowed 判断 from -> to 是否允许
func (p *TransitionPolicy) Allowed(from, to model.OrderStatus) bool {
	if !p.Strict() {
		return true
	}
	_, ok := p.allowed[from][to]
	return ok
}
