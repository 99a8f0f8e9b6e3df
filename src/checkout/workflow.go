package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/Ryan-Shaik/TechWave/src/events"
	"github.com/Ryan-Shaik/TechWave/src/models"
	"github.com/Ryan-Shaik/TechWave/src/payments"
	"github.com/Ryan-Shaik/TechWave/src/store"
	"github.com/Ryan-Shaik/TechWave/src/types"
)

const (
	ValidationMessage = "Please fill in all required fields"
	NotFoundMessage   = "Purchase not found"
	InFlightMessage   = "Payment is already being processed"
)

var (
	ErrValidation         = errors.New("missing required customer fields")
	ErrSubmissionInFlight = errors.New("submission already in flight")
)

// Step names the stage a submission reached.
type Step string

const (
	StepValidate     Step = "validate"
	StepCustomerInfo Step = "customer_info"
	StepConfirm      Step = "confirm"
	StepRecordStatus Step = "record_status"
	StepDone         Step = "done"
)

type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

func (c CustomerInfo) normalize() (CustomerInfo, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	if c.Name == "" || c.Email == "" {
		return c, ErrValidation
	}
	return c, nil
}

type Submission struct {
	PurchaseID    string
	Customer      CustomerInfo
	PaymentMethod string
}

// Outcome is the single result of a submission. Err is nil on success.
type Outcome struct {
	PurchaseID string
	Step       Step
	Status     types.PaymentStatus
	Message    string
	Err        error
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Workflow collects customer details and confirms the payment, in that order.
type Workflow struct {
	Store     store.PurchaseStore
	Processor payments.Processor
	Publisher events.Publisher
	// AppHost is the origin of the confirmation page handed to the processor.
	AppHost string

	inFlight sync.Map
}

func (w *Workflow) returnURL(purchaseID string) string {
	return fmt.Sprintf("%s/confirmation?purchase_id=%s", strings.TrimRight(w.AppHost, "/"), url.QueryEscape(purchaseID))
}

// CollectCustomerInfo validates info and writes it onto a pending purchase.
func (w *Workflow) CollectCustomerInfo(ctx context.Context, purchaseID string, info CustomerInfo) error {
	info, err := info.normalize()
	if err != nil {
		return err
	}
	p, err := w.Store.Get(ctx, purchaseID)
	if err != nil {
		return err
	}
	return w.writeCustomerInfo(ctx, p, info)
}

func (w *Workflow) writeCustomerInfo(ctx context.Context, p *models.Purchase, info CustomerInfo) error {
	if p.PaymentStatus != types.PAYMENT_PENDING {
		return fmt.Errorf("%w: purchase %s is %s", models.ErrInvalidTransition, p.ID, p.PaymentStatus)
	}
	return w.Store.Update(ctx, p.ID, models.CustomerUpdate(info.Name, info.Email, info.Phone))
}

func failure(id string, step Step, err error, msg string) Outcome {
	return Outcome{PurchaseID: id, Step: step, Err: err, Message: msg}
}

func errorMessage(err error) string {
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundMessage
	}
	return payments.Message(err)
}

// Submit runs validate, customer info, confirm and record status in order and
// reports exactly one outcome.
func (w *Workflow) Submit(ctx context.Context, s Submission) Outcome {
	id := s.PurchaseID
	if _, busy := w.inFlight.LoadOrStore(id, struct{}{}); busy {
		return failure(id, StepValidate, ErrSubmissionInFlight, InFlightMessage)
	}
	defer w.inFlight.Delete(id)

	info, err := s.Customer.normalize()
	if err != nil {
		return failure(id, StepValidate, err, ValidationMessage)
	}

	p, err := w.Store.Get(ctx, id)
	if err != nil {
		return failure(id, StepCustomerInfo, err, errorMessage(err))
	}
	if err := w.writeCustomerInfo(ctx, p, info); err != nil {
		log.Printf("[Checkout] Customer info for %s not saved: %s\n", id, err.Error())
		return failure(id, StepCustomerInfo, err, errorMessage(err))
	}

	_, err = w.Processor.Confirm(ctx, payments.ConfirmParams{
		PaymentIntentID: p.PaymentIntentID,
		PaymentMethod:   s.PaymentMethod,
		ReceiptEmail:    info.Email,
		ReturnURL:       w.returnURL(id),
	})
	if err != nil {
		log.Printf("[Checkout] Payment confirmation for %s failed: %s\n", id, err.Error())
		if _, serr := w.recordStatus(ctx, id, p.PaymentIntentID, types.PAYMENT_FAILED, "checkout.confirm"); serr != nil {
			log.Printf("[Checkout] Could not mark %s failed: %s\n", id, serr.Error())
		}
		o := failure(id, StepConfirm, err, payments.Message(err))
		o.Status = types.PAYMENT_FAILED
		return o
	}

	if _, err := w.recordStatus(ctx, id, p.PaymentIntentID, types.PAYMENT_SUCCEEDED, "checkout.confirm"); err != nil {
		log.Printf("[Checkout] Could not mark %s succeeded: %s\n", id, err.Error())
		return failure(id, StepRecordStatus, err, errorMessage(err))
	}
	return Outcome{PurchaseID: id, Step: StepDone, Status: types.PAYMENT_SUCCEEDED}
}

func (w *Workflow) recordStatus(ctx context.Context, id, paymentIntentID string, to types.PaymentStatus, source string) (bool, error) {
	changed, err := store.UpdateStatus(ctx, w.Store, id, to)
	if err != nil || !changed {
		return changed, err
	}
	events.PublishAsync(w.Publisher, events.PurchaseEvent{
		Source:          source,
		PurchaseID:      id,
		PaymentIntentID: paymentIntentID,
		Status:          to,
	})
	return true, nil
}

// Reconcile applies a processor-reported status to the purchase holding the
// intent. Purchases already in a terminal status are left untouched.
func (w *Workflow) Reconcile(ctx context.Context, paymentIntentID string, to types.PaymentStatus, source string) (*models.Purchase, bool, error) {
	p, err := w.Store.FindByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, false, err
	}
	changed, err := w.recordStatus(ctx, p.ID, paymentIntentID, to, source)
	if errors.Is(err, models.ErrInvalidTransition) {
		log.Printf("[Checkout] Ignoring %s for %s: %s\n", source, p.ID, err.Error())
		return p, false, nil
	}
	if err != nil {
		return p, false, err
	}
	if changed {
		p.PaymentStatus = to
	}
	return p, changed, nil
}
