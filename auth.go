package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

// GET + POST /register
func (a *App) registerHandler(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	form := RegisterForm{}
	errs := FormErrors{}
	if r.Method == http.MethodPost {
		form = parseRegisterForm(r)
		errs = validateForm(form)
		if _, ok := errs["username"]; !ok && form.Username != "" {
			taken, err := usernameTaken(a.db, form.Username, 0)
			if err != nil {
				a.serverError(w, r, err)
				return
			}
			if taken {
				errs.Add("username", "A user with that username already exists.")
			}
		}
		if errs.Valid() {
			hash, err := hashPassword(form.Password)
			if err != nil {
				a.serverError(w, r, err)
				return
			}
			user := User{Username: form.Username, Email: form.Email, PwHash: hash}
			if err := createUser(a.db, &user); err != nil {
				a.serverError(w, r, err)
				return
			}
			a.log.WithField("username", user.Username).Info("User registered")
			a.addFlash(w, r, flashSuccess, fmt.Sprintf("Account for %s was created", user.Email))
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		a.metrics.BadRequests.WithLabelValues(routeName(r)).Inc()
	}

	form.Password, form.Password2 = "", ""
	a.renderTemplate(w, r, "register.html", map[string]interface{}{
		"Form":   form,
		"Errors": errs,
	})
}

// GET + POST /login
func (a *App) loginHandler(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.FormValue("next"))
	if currentUser(r) != nil {
		http.Redirect(w, r, next, http.StatusFound)
		return
	}

	form := LoginForm{}
	errs := FormErrors{}
	if r.Method == http.MethodPost {
		form = parseLoginForm(r)
		errs = validateForm(form)
		if errs.Valid() {
			user, err := getUserByUsername(a.db, form.Username)
			switch {
			case err == nil && checkPassword(user.PwHash, form.Password):
				if err := a.logIn(w, r, user); err != nil {
					a.serverError(w, r, err)
					return
				}
				a.log.WithField("username", user.Username).Info("User logged in")
				a.addFlash(w, r, flashSuccess, "You were logged in")
				http.Redirect(w, r, next, http.StatusFound)
				return
			case err != nil && !errors.Is(err, ErrNotFound):
				a.serverError(w, r, err)
				return
			}
			a.log.WithField("username", form.Username).Warn("Invalid login attempt")
			errs.Add("", "Please enter a correct username and password.")
		}
		a.metrics.BadRequests.WithLabelValues(routeName(r)).Inc()
	}

	form.Password = ""
	a.renderTemplate(w, r, "login.html", map[string]interface{}{
		"Form":   form,
		"Errors": errs,
		"Next":   next,
	})
}

// GET + POST /logout
func (a *App) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.logOut(w, r); err != nil {
		a.serverError(w, r, err)
		return
	}
	a.renderTemplate(w, withUser(r, nil), "logout.html", nil)
}

// GET + POST /profile
func (a *App) profileHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	uForm := userUpdateFormFor(user)
	pForm := ProfileUpdateForm{Bio: user.Profile.Bio, Location: user.Profile.Location}
	uErrs, pErrs := FormErrors{}, FormErrors{}

	if r.Method == http.MethodPost {
		switch r.PostFormValue("button") {
		case "delete":
			http.Redirect(w, r, fmt.Sprintf("/user/%d/delete", user.ID), http.StatusFound)
			return
		case "change_password":
			http.Redirect(w, r, "/profile/password", http.StatusFound)
			return
		case "update":
			uForm, pForm = parseUserUpdateForm(r), parseProfileUpdateForm(r)
			uErrs, pErrs = validateForm(uForm), validateForm(pForm)
			if _, ok := uErrs["username"]; !ok {
				taken, err := usernameTaken(a.db, uForm.Username, user.ID)
				if err != nil {
					a.serverError(w, r, err)
					return
				}
				if taken {
					uErrs.Add("username", "A user with that username already exists.")
				}
			}
			if uErrs.Valid() && pErrs.Valid() {
				user.Username, user.Email = uForm.Username, uForm.Email
				user.FirstName, user.LastName = uForm.FirstName, uForm.LastName
				user.Profile.Bio, user.Profile.Location = pForm.Bio, pForm.Location
				if err := updateUser(a.db, user); err != nil {
					a.serverError(w, r, err)
					return
				}
				a.addFlash(w, r, flashSuccess, "Your account was updated")
				http.Redirect(w, r, "/profile", http.StatusFound)
				return
			}
			a.metrics.BadRequests.WithLabelValues(routeName(r)).Inc()
		default:
			a.fail(w, r, http.StatusBadRequest)
			return
		}
	}

	a.renderTemplate(w, r, "profile.html", map[string]interface{}{
		"UForm":   uForm,
		"PForm":   pForm,
		"UErrors": uErrs,
		"PErrors": pErrs,
	})
}

// GET + POST /profile/password
func (a *App) changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	errs := FormErrors{}

	if r.Method == http.MethodPost {
		form := parsePasswordChangeForm(r)
		errs = validateForm(form)
		if _, ok := errs["old_password"]; !ok && !checkPassword(user.PwHash, form.OldPassword) {
			errs.Add("old_password", "Your old password was entered incorrectly. Please enter it again.")
		}
		if errs.Valid() {
			hash, err := hashPassword(form.NewPassword)
			if err != nil {
				a.serverError(w, r, err)
				return
			}
			if err := setPassword(a.db, user.ID, hash); err != nil {
				a.serverError(w, r, err)
				return
			}
			a.log.WithField("user_id", user.ID).Info("Password changed")
			a.addFlash(w, r, flashSuccess, "Your password was changed")
			http.Redirect(w, r, "/profile", http.StatusFound)
			return
		}
		a.metrics.BadRequests.WithLabelValues(routeName(r)).Inc()
		a.addFlash(w, r, flashError, "Please enter correct data")
	}

	a.renderTemplate(w, r, "password_change.html", map[string]interface{}{
		"Errors": errs,
	})
}

// GET + POST /user/{id}/delete
func (a *App) userDeleteHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, ok := idVar(r, "id")
	if !ok {
		a.fail(w, r, http.StatusNotFound)
		return
	}
	if _, err := getUserByID(a.db, id); err != nil {
		a.storeError(w, r, err)
		return
	}
	if id != user.ID {
		a.fail(w, r, http.StatusForbidden)
		return
	}

	if r.Method != http.MethodPost {
		a.renderTemplate(w, r, "user_confirm_delete.html", nil)
		return
	}

	if err := deleteUser(a.db, user.ID); err != nil {
		a.serverError(w, r, err)
		return
	}
	if err := a.logOut(w, r); err != nil {
		a.serverError(w, r, err)
		return
	}
	a.metrics.Deletions.WithLabelValues("user").Inc()
	a.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("Account deleted")
	a.addFlash(w, r, flashSuccess, "Your account was deleted")
	http.Redirect(w, r, "/login", http.StatusFound)
}
