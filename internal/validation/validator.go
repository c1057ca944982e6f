// Package validation は gin のバリデーターにカスタムルールを登録し、
// エラーをフォーム向けのメッセージに変換します。
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"taskdesk/internal/models"
)

// Now は notpast ルールが「今日」を判定するための時計です。テストで差し替えます。
var Now = time.Now

// Rule はフィールドに付けたルール 1 つと、その失敗時のメッセージです。
// Stop が true のルールが失敗した場合、後続のルールは見ません。
type Rule struct {
	Tag     string
	Param   string
	Message string
	Stop    bool
}

// Messages はフィールド名 (json タグ) → binding タグと同じ順のルール の表です。
// 複数のルールが失敗した場合は最後に失敗したルールのメッセージを使います。
type Messages map[string][]Rule

var (
	RegisterMessages = Messages{
		"name":  {{Tag: "min", Param: "2", Message: "Name must be at least 2 characters"}},
		"email": {{Tag: "email", Message: "Invalid email address"}},
		"password": {
			{Tag: "min", Param: "6", Message: "Password must be at least 6 characters"},
			{Tag: "hasupper", Message: "Password must contain at least one uppercase letter"},
			{Tag: "hasdigit", Message: "Password must contain at least one number"},
		},
	}

	TaskMessages = Messages{
		"title": {
			{Tag: "required", Message: "Title is required", Stop: true},
			{Tag: "notblank", Message: "Title is required"},
		},
		"description": {
			{Tag: "required", Message: "Description is required", Stop: true},
			{Tag: "notblank", Message: "Description is required"},
		},
		"dueDate": {
			{Tag: "required", Message: "Due date is required", Stop: true},
			{Tag: "datetime", Param: models.DateLayout, Message: "Due date must be a valid date", Stop: true},
			{Tag: "notpast", Message: "Due date cannot be in the past"},
		},
		"status":   {{Tag: "oneof", Param: "todo inProgress done", Message: "Invalid status"}},
		"priority": {{Tag: "oneof", Param: "high low", Message: "Invalid priority"}},
	}

	LoginMessages = Messages{
		"identifier": {{Tag: "required", Message: "Username / Email is required"}},
		"password":   {{Tag: "required", Message: "Password is required"}},
	}
)

var (
	registerOnce sync.Once
	registerErr  error
)

// Register は gin のバリデーターエンジンにカスタムルールを一度だけ登録します。
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("unexpected validator engine")
			return
		}
		registerErr = RegisterOn(v)
	})
	return registerErr
}

// RegisterOn は v にカスタムルールとタグ名関数を登録します。
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	rules := map[string]validator.Func{
		"hasupper": hasRune(unicode.IsUpper),
		"hasdigit": hasRune(unicode.IsDigit),
		"notpast":  notPast,
		"notblank": validators.NotBlank,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s rule: %w", tag, err)
		}
	}
	return nil
}

func hasRune(pred func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), pred) >= 0
	}
}

// notPast は日付文字列 (YYYY-MM-DD) が UTC の今日以降であることを確認します。
func notPast(fl validator.FieldLevel) bool {
	val := models.DatePart(fl.Field().String())
	if val == "" {
		return false
	}
	today := Now().UTC().Format(models.DateLayout)
	return val >= today
}

// checker は後続ルールの再評価に使う、gin とは独立したバリデーターです。
var checker = sync.OnceValue(func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	if err := RegisterOn(v); err != nil {
		panic(err)
	}
	return v
})

// FieldErrors は ValidationErrors をフィールドごとのメッセージに変換します。
// ValidationErrors 以外 (JSON の構文エラーなど) の場合は nil を返します。
func FieldErrors(err error, msgs Messages) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		field := e.Field()
		if _, exists := out[field]; exists {
			continue
		}
		out[field] = messageFor(e, msgs[field])
	}
	return out
}

// messageFor は e で失敗したルール以降も値を検査し、最後に失敗したルールのメッセージを返します。
func messageFor(e validator.FieldError, rules []Rule) string {
	failed := slices.IndexFunc(rules, func(r Rule) bool { return r.Tag == e.Tag() })
	if failed < 0 {
		return fmt.Sprintf("%s is invalid", e.Field())
	}
	msg := rules[failed].Message
	if rules[failed].Stop {
		return msg
	}
	for _, r := range rules[failed+1:] {
		if checker().Var(e.Value(), r.tag()) != nil {
			msg = r.Message
			if r.Stop {
				break
			}
		}
	}
	return msg
}

func (r Rule) tag() string {
	if r.Param == "" {
		return r.Tag
	}
	return r.Tag + "=" + r.Param
}
