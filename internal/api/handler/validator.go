package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/waimai/internal/model"
)

// RegisterValidators 注册自定义校验规则
//
//	order_status: 取值必须是已定义的订单状态
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		s := fl.Field().Int()
		return s >= int64(model.OrderStatusPending) && s <= int64(model.OrderStatusCancelled)
	})
}
