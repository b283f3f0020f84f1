// Package auth provides password hashing and the guard pipeline that gates
// registration and login.
//
// # Guards
//
// A Guard inspects an Attempt and either proceeds (nil) or rejects with a
// typed *apperr.E. Guards never write HTTP responses; Run composes them
// sequentially and stops at the first rejection, which the centralized
// responder in pkg/httputil renders.
//
//	attempt := &auth.Attempt{Username: req.Username, Password: req.Password}
//	if rej := auth.Run(ctx, attempt,
//		auth.RequireUsernameFree(store),
//		auth.RequirePasswordLength(auth.MinPasswordLength),
//	); rej != nil {
//		httputil.WriteAppError(w, logger, rej, verbose)
//		return
//	}
//
// RequireUsernameExists deliberately rejects with the same message and
// status as a wrong password so that responses never reveal whether a
// username is registered.
package auth
