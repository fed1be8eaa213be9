package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"unicode"

	"github.com/TeleportDAO/teleswapd/internal/core/application"
	"github.com/TeleportDAO/teleswapd/internal/core/domain"
	"github.com/spf13/viper"
)

type Config struct {
	Datadir  string
	HTTPPort uint32
	LogLevel uint32

	Network            string
	DestinationChainId uint32

	EsploraURL        string
	WalletURL         string
	EvmRPCURL         string
	EvmPrivateKey     string
	FeeOracleURL      string
	LockerRegistryURL string

	PollInterval          time.Duration
	FinalizationThreshold uint64
	SlippagePercent       int64
	DeadlineWindow        time.Duration
	OperatorAlertAfter    time.Duration

	TransferRouter string
	ExchangeRouter string
	BurnRouter     string
	TeleBTC        string
	WrappedNative  string
	AmmFactory     string
	AmmRouter      string
}

var (
	Datadir  = "DATADIR"
	HTTPPort = "HTTP_PORT"
	LogLevel = "LOG_LEVEL"

	Network            = "NETWORK"
	DestinationChainId = "DESTINATION_CHAIN_ID"

	EsploraURL        = "ESPLORA_URL"
	WalletURL         = "WALLET_URL"
	EvmRPCURL         = "EVM_RPC_URL"
	EvmPrivateKey     = "EVM_PRIVATE_KEY"
	FeeOracleURL      = "FEE_ORACLE_URL"
	LockerRegistryURL = "LOCKER_REGISTRY_URL"

	PollInterval          = "POLL_INTERVAL"
	FinalizationThreshold = "FINALIZATION_THRESHOLD"
	SlippagePercent       = "SLIPPAGE_PERCENT"
	DeadlineWindow        = "DEADLINE_WINDOW"
	OperatorAlertAfter    = "OPERATOR_ALERT_AFTER"

	TransferRouter = "TRANSFER_ROUTER"
	ExchangeRouter = "EXCHANGE_ROUTER"
	BurnRouter     = "BURN_ROUTER"
	TeleBTC        = "TELEBTC"
	WrappedNative  = "WRAPPED_NATIVE"
	AmmFactory     = "AMM_FACTORY"
	AmmRouter      = "AMM_ROUTER"

	defaultDatadir               = appDatadir("teleswapd", false)
	defaultHTTPPort              = 7020
	defaultLogLevel              = 4
	defaultNetwork               = string(domain.Testnet)
	defaultDestinationChainId    = 80001
	defaultPollInterval          = 30 * time.Second
	defaultFinalizationThreshold = 6
	defaultSlippagePercent       = 10
	defaultDeadlineWindow        = 100 * time.Minute
	defaultOperatorAlertAfter    = 6 * time.Hour
)

func LoadConfig() (*Config, error) {
	viper.SetEnvPrefix("TELESWAPD")
	viper.AutomaticEnv()

	viper.SetDefault(Datadir, defaultDatadir)
	viper.SetDefault(HTTPPort, defaultHTTPPort)
	viper.SetDefault(LogLevel, defaultLogLevel)
	viper.SetDefault(Network, defaultNetwork)
	viper.SetDefault(DestinationChainId, defaultDestinationChainId)
	viper.SetDefault(PollInterval, defaultPollInterval)
	viper.SetDefault(FinalizationThreshold, defaultFinalizationThreshold)
	viper.SetDefault(SlippagePercent, defaultSlippagePercent)
	viper.SetDefault(DeadlineWindow, defaultDeadlineWindow)
	viper.SetDefault(OperatorAlertAfter, defaultOperatorAlertAfter)

	if err := initDatadir(); err != nil {
		return nil, fmt.Errorf("error while creating datadir: %s", err)
	}

	config := &Config{
		Datadir:               viper.GetString(Datadir),
		HTTPPort:              viper.GetUint32(HTTPPort),
		LogLevel:              viper.GetUint32(LogLevel),
		Network:               viper.GetString(Network),
		DestinationChainId:    viper.GetUint32(DestinationChainId),
		EsploraURL:            viper.GetString(EsploraURL),
		WalletURL:             viper.GetString(WalletURL),
		EvmRPCURL:             viper.GetString(EvmRPCURL),
		EvmPrivateKey:         viper.GetString(EvmPrivateKey),
		FeeOracleURL:          viper.GetString(FeeOracleURL),
		LockerRegistryURL:     viper.GetString(LockerRegistryURL),
		PollInterval:          viper.GetDuration(PollInterval),
		FinalizationThreshold: viper.GetUint64(FinalizationThreshold),
		SlippagePercent:       viper.GetInt64(SlippagePercent),
		DeadlineWindow:        viper.GetDuration(DeadlineWindow),
		OperatorAlertAfter:    viper.GetDuration(OperatorAlertAfter),
		TransferRouter:        viper.GetString(TransferRouter),
		ExchangeRouter:        viper.GetString(ExchangeRouter),
		BurnRouter:            viper.GetString(BurnRouter),
		TeleBTC:               viper.GetString(TeleBTC),
		WrappedNative:         viper.GetString(WrappedNative),
		AmmFactory:            viper.GetString(AmmFactory),
		AmmRouter:             viper.GetString(AmmRouter),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if !domain.Network(c.Network).Valid() {
		return fmt.Errorf("invalid network %q", c.Network)
	}
	for name, value := range map[string]string{
		EsploraURL:        c.EsploraURL,
		WalletURL:         c.WalletURL,
		EvmRPCURL:         c.EvmRPCURL,
		EvmPrivateKey:     c.EvmPrivateKey,
		FeeOracleURL:      c.FeeOracleURL,
		LockerRegistryURL: c.LockerRegistryURL,
		TransferRouter:    c.TransferRouter,
		ExchangeRouter:    c.ExchangeRouter,
		BurnRouter:        c.BurnRouter,
		TeleBTC:           c.TeleBTC,
		WrappedNative:     c.WrappedNative,
		AmmFactory:        c.AmmFactory,
		AmmRouter:         c.AmmRouter,
	} {
		if value == "" {
			return fmt.Errorf("missing required setting TELESWAPD_%s", name)
		}
	}
	return nil
}

// LifecycleConfig maps the flat env settings onto the application
// service configuration.
func (c *Config) LifecycleConfig() application.Config {
	return application.Config{
		Network:               domain.Network(c.Network),
		DestinationChainId:    c.DestinationChainId,
		PollInterval:          c.PollInterval,
		FinalizationThreshold: c.FinalizationThreshold,
		SlippagePercent:       c.SlippagePercent,
		DeadlineWindow:        c.DeadlineWindow,
		OperatorAlertAfter:    c.OperatorAlertAfter,
		Contracts: application.ContractSet{
			TransferRouter: c.TransferRouter,
			ExchangeRouter: c.ExchangeRouter,
			BurnRouter:     c.BurnRouter,
			TeleBTC:        c.TeleBTC,
		},
		Tokens: map[domain.Asset]string{
			domain.AssetTeleBTC:       c.TeleBTC,
			domain.AssetWrappedNative: c.WrappedNative,
		},
	}
}

func initDatadir() error {
	datadir := viper.GetString(Datadir)
	return makeDirectoryIfNotExists(datadir)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

// appDatadir returns an operating system specific directory to be used
// for storing application data for an application.
func appDatadir(appName string, roaming bool) string {
	if appName == "" || appName == "." {
		return "."
	}

	appName = strings.TrimPrefix(appName, ".")
	appNameUpper := string(unicode.ToUpper(rune(appName[0]))) + appName[1:]
	appNameLower := string(unicode.ToLower(rune(appName[0]))) + appName[1:]

	var homeDir string
	usr, err := user.Current()
	if err == nil {
		homeDir = usr.HomeDir
	}
	if err != nil || homeDir == "" {
		homeDir = os.Getenv("HOME")
	}

	goos := runtime.GOOS
	switch goos {
	case "windows":
		appData := os.Getenv("LOCALAPPDATA")
		if roaming || appData == "" {
			appData = os.Getenv("APPDATA")
		}
		if appData != "" {
			return filepath.Join(appData, appNameUpper)
		}

	case "darwin":
		if homeDir != "" {
			return filepath.Join(homeDir, "Library",
				"Application Support", appNameUpper)
		}

	case "plan9":
		if homeDir != "" {
			return filepath.Join(homeDir, appNameLower)
		}

	default:
		if homeDir != "" {
			return filepath.Join(homeDir, "."+appNameLower)
		}
	}

	return "."
}
