package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"axiapac.com/portal/config"
	"axiapac.com/portal/core"
	"axiapac.com/portal/infrastructure/communication"
	"axiapac.com/portal/infrastructure/filesystem"
	"axiapac.com/portal/lambdas/report-digest/helper"
	"axiapac.com/portal/logging"
	"axiapac.com/portal/reports"
)

// newDigest wires the digest from configuration. The returned func closes the
// database pool.
func newDigest(ctx context.Context, cfg config.Config, log *zap.Logger) (*helper.Digest, func(), error) {
	dsn, err := cfg.DatabaseDSN(ctx)
	if err != nil {
		return nil, nil, err
	}
	dm, err := core.New(cfg.DBDriver, dsn, cfg.DBMaxConnections, core.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		dm.Close()
		return nil, nil, err
	}

	d := &helper.Digest{
		Reports: reports.NewService(core.NewSource(dm), reports.WithLogger(log), reports.WithLocation(loc)),
		From:    cfg.DigestFrom,
		Log:     log,
	}
	if cfg.ReportBucket != "" {
		store, err := filesystem.NewStore(ctx, cfg.ReportBucket)
		if err != nil {
			dm.Close()
			return nil, nil, err
		}
		d.Archive = store
	}
	if cfg.Slack.BotToken != "" {
		d.Notifier = communication.NewSlack(cfg.Slack.BotToken, communication.SlackOption{
			InfoChannelID:  cfg.Slack.InfoChannelID,
			ErrorChannelID: cfg.Slack.ErrorChannelID,
		})
	}
	if cfg.DigestFrom != "" {
		mailer, err := communication.NewMailer(ctx)
		if err != nil {
			dm.Close()
			return nil, nil, err
		}
		d.Mailer = mailer
	}
	return d, func() { dm.Close() }, nil
}

func HandleRequest(ctx context.Context, raw json.RawMessage) (any, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.Must(cfg.Env)
	defer log.Sync()

	event, agent, err := helper.ParseEvent(raw)
	if err != nil {
		return nil, err
	}
	log.Info("digest event",
		zap.String("organizationId", event.OrganizationID),
		zap.String("accountId", event.AccountID),
		zap.String("type", event.Type),
		zap.Int("recipients", len(event.Recipients)),
		zap.Bool("agent", agent != nil))

	d, closeDB, err := newDigest(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	defer closeDB()

	result, err := d.Run(ctx, event)
	if err != nil {
		return nil, err
	}
	if agent != nil && agent.Function != "" {
		return helper.NewBedrockResponse(agent.ActionGroup, agent.Function, result), nil
	}
	return result, nil
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(HandleRequest)
		return
	}

	event := helper.DigestEvent{}
	var labels, recipients string
	flag.StringVar(&event.OrganizationID, "org", "", "organization id")
	flag.StringVar(&event.AccountID, "account", "", "requesting account id")
	flag.StringVar(&labels, "labels", "", "comma separated requester labels")
	flag.StringVar(&event.Type, "type", "summary", "report type")
	flag.StringVar(&event.Frequency, "frequency", "", "trend frequency")
	flag.IntVar(&event.Days, "days", 7, "days covered by the digest")
	flag.StringVar(&recipients, "to", "", "comma separated email recipients")
	flag.Parse()
	event.Labels = strings.Split(labels, ",")
	if labels == "" {
		event.Labels = []string{}
	}
	if recipients != "" {
		event.Recipients = strings.Split(recipients, ",")
	}

	raw, _ := json.Marshal(event)
	result, err := HandleRequest(context.Background(), raw)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	resJson, _ := json.MarshalIndent(result, "", "  ")
	fmt.Printf("[SUCCESS] Results:\n%s\n", string(resJson))
}
