package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	_ "github.com/joho/godotenv/autoload"

	"leadgate/internal/formflow"
	"leadgate/internal/models"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	flags := pflag.NewFlagSet("leadctl", pflag.ExitOnError)
	flags.String("server", "http://localhost:8080", "lead gate base URL")
	flags.String("form", formflow.Banner.Name, "form variant: banner, brochure or popup")
	flags.String("landing-url", "", "landing page URL carrying utm_* parameters")
	flags.String("shadow-url", "", "webhook that receives shadow copies")
	flags.Duration("timeout", 30*time.Second, "HTTP timeout")
	flags.String("name", "", "full name")
	flags.String("phone", "", "10-digit phone number")
	flags.String("email", "", "email address")
	flags.String("state", "", "state")
	flags.String("city", "", "city")
	flags.String("investment", "", "investment range")
	flags.String("timeline", "", "timeline")
	_ = flags.Parse(os.Args[1:])

	v := viper.New()
	v.SetEnvPrefix("LEADCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		log.Fatal().Err(err).Msg("Failed to bind flags")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, v); err != nil {
		log.Fatal().Err(err).Msg("leadctl failed")
	}
}

func run(ctx context.Context, v *viper.Viper) error {
	variant, ok := formflow.VariantByName(v.GetString("form"))
	if !ok {
		return fmt.Errorf("unknown form %q", v.GetString("form"))
	}

	timeout := v.GetDuration("timeout")

	client, err := formflow.NewClient(v.GetString("server"), timeout)
	if err != nil {
		return err
	}

	validator, err := formflow.NewValidator()
	if err != nil {
		return err
	}

	var shadow formflow.ShadowNotifier = formflow.NopShadowNotifier{}
	if u := v.GetString("shadow-url"); u != "" {
		webhook := formflow.NewWebhookShadowNotifier(u, timeout)
		defer webhook.Wait()
		shadow = webhook
	}

	ctrl, err := formflow.NewController(variant, client, shadow, validator, v.GetString("landing-url"))
	if err != nil {
		return err
	}
	ctrl.Update(models.LeadFields{
		FullName:   v.GetString("name"),
		Phone:      v.GetString("phone"),
		Email:      v.GetString("email"),
		State:      v.GetString("state"),
		City:       v.GetString("city"),
		Investment: v.GetString("investment"),
		Timeline:   v.GetString("timeline"),
	})

	res, err := ctrl.SendOTP(ctx)
	if err != nil {
		return report(err)
	}
	fmt.Println(res.Message)

	in := bufio.NewScanner(os.Stdin)
	for ctrl.State() != formflow.StateDone && ctrl.State() != formflow.StateFailed {
		fmt.Print("OTP: ")
		if !in.Scan() {
			return errors.New("no OTP entered")
		}

		res, err := ctrl.EnterOTP(ctx, in.Text())
		if err != nil {
			var verr formflow.ValidationError
			if errors.As(err, &verr) {
				return report(err)
			}
			fmt.Println(report(err))
			continue
		}
		if res == nil {
			fmt.Println("The OTP has 6 digits.")
			continue
		}
		fmt.Println(res.Message)
	}

	if ctrl.State() == formflow.StateFailed {
		return errors.New("submission failed")
	}
	return nil
}

func report(err error) error {
	var verr formflow.ValidationError
	if errors.As(err, &verr) {
		for field, msg := range verr {
			fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
		}
		return errors.New("form is incomplete")
	}

	var apiErr *formflow.APIError
	if errors.As(err, &apiErr) {
		return errors.New(apiErr.Message)
	}
	return err
}
