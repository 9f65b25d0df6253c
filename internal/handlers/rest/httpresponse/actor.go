package httpresponse

import (
	"context"
	"errors"

	"dormeal/internal/pkg/middlewares/auth"
)

var ErrActorMismatch = errors.New("user id does not match bearer token")

// Actor сверяет userId из запроса с subject токена. Без токена (проверка
// выключена) доверяем запросу, пустой userId берется из токена.
func Actor(ctx context.Context, claimed string) (string, error) {
	subject, ok := auth.UserID(ctx)
	if !ok {
		return claimed, nil
	}
	if claimed == "" {
		return subject, nil
	}
	if claimed != subject {
		return "", ErrActorMismatch
	}
	return claimed, nil
}
