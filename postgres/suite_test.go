package postgres_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/xy-planning-network/enum"
	"github.com/xy-planning-network/enum/config"
	"github.com/xy-planning-network/enum/postgres"
	"gorm.io/gorm"
)

type hand struct {
	ID   uint
	Suit postgres.Column[suit, string]
}

type DBTestSuite struct {
	suite.Suite

	db *gorm.DB
}

func TestRunSuite(t *testing.T) {
	cfg, err := config.Load("../.env")
	if err != nil {
		t.Fatal(err)
	}

	if os.Getenv("DATABASE_TEST_NAME") == "" && os.Getenv("DATABASE_TEST_URL") == "" {
		t.Skip("no test database configured")
	}

	cfg.Env = config.Testing
	suite.Run(t, &DBTestSuite{db: connect(t, cfg)})
}

func connect(t *testing.T, cfg *config.Config) *gorm.DB {
	db, err := postgres.Connect(cfg.Postgres(), []postgres.Migration{
		postgres.SyncMigration(Suits.Type()),
		{Key: "create_hands", Executor: func(db *gorm.DB) error { return db.AutoMigrate(&hand{}) }},
	})
	if err != nil {
		t.Fatal(err)
	}

	return db
}

func (suite *DBTestSuite) TearDownTest() {
	suite.Require().Nil(postgres.WipeDB(suite.db, "public"))
}

func (suite *DBTestSuite) TestSyncType() {
	// Act
	labels, err := postgres.Labels(suite.db, Suits.Type())

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal([]string{"Clubs", "Hearts"}, labels)

	// Act
	err = postgres.SyncType(suite.db, Suits.Type())

	// Assert
	suite.Require().Nil(err)
	labels, err = postgres.Labels(suite.db, Suits.Type())
	suite.Require().Nil(err)
	suite.Require().Equal([]string{"Clubs", "Hearts"}, labels)
}

func (suite *DBTestSuite) TestSyncTypeNotClosed() {
	// Act
	err := postgres.SyncType(suite.db, Tags.Type())

	// Assert
	suite.Require().ErrorIs(err, postgres.ErrNotClosed)

	// Act
	err = postgres.SyncType(suite.db, enum.Root)

	// Assert
	suite.Require().ErrorIs(err, postgres.ErrNotClosed)
}

func (suite *DBTestSuite) TestColumnRoundTrip() {
	// Arrange
	in := hand{Suit: postgres.Column[suit, string]{V: Hearts}}

	// Act
	err := suite.db.Create(&in).Error

	// Assert
	suite.Require().Nil(err)

	// Arrange
	var out hand

	// Act
	err = suite.db.First(&out, in.ID).Error

	// Assert
	suite.Require().Nil(err)
	suite.Require().Same(Hearts, out.Suit.V)
}

func (suite *DBTestSuite) TestColumnNull() {
	// Arrange
	in := hand{}

	// Act
	err := suite.db.Create(&in).Error

	// Assert
	suite.Require().Nil(err)

	// Arrange
	out := hand{Suit: postgres.Column[suit, string]{V: Hearts}}

	// Act
	err = suite.db.First(&out, in.ID).Error

	// Assert
	suite.Require().Nil(err)
	suite.Require().Nil(out.Suit.V)
}

func (suite *DBTestSuite) TestUnknownLabel() {
	// Act
	err := suite.db.Exec("INSERT INTO hands (suit) VALUES ('Joker')").Error

	// Assert
	suite.Require().NotNil(err)
	suite.Require().Contains(err.Error(), "22P02")
}
